package material

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
)

// Lighting evaluates the Phong reflection model for one light.
// objectPoint is used only for pattern lookup; point, eyev and normalv are in
// world space. When inShadow is set only the ambient term contributes.
func Lighting(m Material, objectPoint core.Tuple, light lights.PointLight, point, eyev, normalv core.Tuple, inShadow bool) core.Color {
	effective := m.SurfaceColor(objectPoint).Hadamard(light.Intensity)
	ambient := effective.Multiply(m.Ambient)
	if inShadow {
		return ambient
	}

	lightv, err := light.Position.Subtract(point).Normalize()
	if err != nil {
		// light sits on the surface point; no direction to shade from
		return ambient
	}

	lightDotNormal := lightv.Dot(normalv)
	if lightDotNormal <= 0 {
		return ambient
	}
	diffuse := effective.Multiply(m.Diffuse * lightDotNormal)

	specular := core.Black
	reflectv := lightv.Negate().Reflect(normalv)
	if reflectDotEye := reflectv.Dot(eyev); reflectDotEye > 0 {
		factor := math.Pow(reflectDotEye, m.Shininess)
		specular = light.Intensity.Multiply(m.Specular * factor)
	}

	return ambient.Add(diffuse).Add(specular)
}
