package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/lucasb-eyer/go-colorful"
)

// InspectResponse describes what the camera sees through one pixel
type InspectResponse struct {
	Hit          bool           `json:"hit"`
	GeometryType string         `json:"geometryType,omitempty"`
	Handle       int            `json:"handle"`
	Point        [3]float64     `json:"point"`
	Normal       [3]float64     `json:"normal"`
	Distance     float64        `json:"distance"`
	Inside       bool           `json:"inside"`
	Color        string         `json:"color"` // Shaded pixel color as #rrggbb
	Material     map[string]any `json:"material,omitempty"`
}

// handleInspect casts the camera ray for pixel (x, y) and reports the first hit
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	req := &SceneRequest{}
	if err := parseCommonSceneParams(values, req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	sceneObj, err := s.createScene(req, serverLogger{})
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	camera := sceneObj.Camera
	x, err := parseIntParam(values, "x", -1, 0, camera.HSize-1)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	y, err := parseIntParam(values, "y", -1, 0, camera.VSize-1)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if x < 0 || y < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "x and y are required"})
		return
	}

	world := sceneObj.World
	ray := camera.RayForPixel(x, y)
	options := integrator.DefaultOptions()
	if sceneObj.MaxDepth > 0 {
		options.MaxDepth = sceneObj.MaxDepth
	}
	shaded, err := integrator.NewWhittedIntegrator(options).RayColor(ray, world)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	}

	response := InspectResponse{Handle: -1, Color: hexColor(shaded)}
	xs := world.Intersect(ray)
	if hit, ok := xs.Hit(); ok {
		comps, err := integrator.PrepareComputations(world, hit, ray, xs)
		if err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
			return
		}
		shape := world.Arena.Get(hit.Object)
		response.Hit = true
		response.GeometryType = shape.Kind.String()
		response.Handle = int(hit.Object)
		response.Point = tupleArray(comps.Point)
		response.Normal = tupleArray(comps.NormalV)
		response.Distance = hit.T
		response.Inside = comps.Inside
		response.Material = materialInfo(shape.Material)
	}
	writeJSON(w, http.StatusOK, response)
}

// materialInfo lists the Phong attributes of a material
func materialInfo(m material.Material) map[string]any {
	info := map[string]any{
		"color":           hexColor(m.Color),
		"ambient":         m.Ambient,
		"diffuse":         m.Diffuse,
		"specular":        m.Specular,
		"shininess":       m.Shininess,
		"reflective":      m.Reflective,
		"transparency":    m.Transparency,
		"refractiveIndex": m.RefractiveIndex,
	}
	if m.Pattern != nil {
		name := fmt.Sprintf("%T", m.Pattern)
		info["pattern"] = strings.ToLower(name[strings.LastIndex(name, ".")+1:])
	}
	return info
}

func hexColor(c core.Color) string {
	return colorful.Color{R: c.R, G: c.G, B: c.B}.Clamped().Hex()
}

func tupleArray(t core.Tuple) [3]float64 {
	return [3]float64{t.X, t.Y, t.Z}
}
