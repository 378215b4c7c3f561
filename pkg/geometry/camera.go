package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/transform"
)

// ErrInvalidCamera is returned for non-positive image sizes, a field of view
// outside (0, π), or a degenerate view
var ErrInvalidCamera = errors.New("invalid camera")

// Camera maps pixels on a canvas one unit in front of the eye to world-space rays
type Camera struct {
	HSize       int     // Horizontal size in pixels
	VSize       int     // Vertical size in pixels
	FieldOfView float64 // Radians

	transform  core.Matrix // World to camera
	inverse    core.Matrix
	halfWidth  float64
	halfHeight float64
	pixelSize  float64
}

// NewCamera creates a camera at the origin looking down -z
func NewCamera(hsize, vsize int, fieldOfView float64) (*Camera, error) {
	if hsize <= 0 || vsize <= 0 {
		return nil, fmt.Errorf("%w: size must be positive, got %dx%d", ErrInvalidCamera, hsize, vsize)
	}
	if fieldOfView <= 0 || fieldOfView >= math.Pi {
		return nil, fmt.Errorf("%w: field of view must be in (0, π), got %f", ErrInvalidCamera, fieldOfView)
	}

	c := &Camera{
		HSize:       hsize,
		VSize:       vsize,
		FieldOfView: fieldOfView,
		transform:   core.Identity(),
		inverse:     core.Identity(),
	}

	halfView := math.Tan(fieldOfView / 2)
	aspect := float64(hsize) / float64(vsize)
	if aspect >= 1 {
		c.halfWidth = halfView
		c.halfHeight = halfView / aspect
	} else {
		c.halfWidth = halfView * aspect
		c.halfHeight = halfView
	}
	c.pixelSize = c.halfWidth * 2 / float64(hsize)
	return c, nil
}

// SetTransform replaces the world-to-camera transform
func (c *Camera) SetTransform(m core.Matrix) error {
	inv, err := m.Inverse()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCamera, err)
	}
	c.transform = m
	c.inverse = inv
	return nil
}

// Transform returns the world-to-camera transform
func (c *Camera) Transform() core.Matrix {
	return c.transform
}

// PixelSize returns the world-space size of one pixel on the canvas plane
func (c *Camera) PixelSize() float64 {
	return c.pixelSize
}

// RayForPixel returns the ray from the eye through the center of pixel (px, py)
func (c *Camera) RayForPixel(px, py int) core.Ray {
	return c.RayForOffset(float64(px)+0.5, float64(py)+0.5)
}

// RayForOffset returns the ray through canvas position (x, y) in pixel units,
// where (0, 0) is the top-left corner of the image
func (c *Camera) RayForOffset(x, y float64) core.Ray {
	worldX := c.halfWidth - x*c.pixelSize
	worldY := c.halfHeight - y*c.pixelSize

	// The canvas is at z=-1 in camera space
	pixel := c.inverse.MultiplyTuple(core.Point(worldX, worldY, -1))
	origin := c.inverse.MultiplyTuple(core.Point(0, 0, 0))
	direction, err := pixel.Subtract(origin).Normalize()
	if err != nil {
		// unreachable for an invertible transform: the canvas is one unit from the eye
		direction = core.Vector(0, 0, -1)
	}
	return core.NewRay(origin, direction)
}

// CameraConfig describes a camera in scene terms
type CameraConfig struct {
	Center core.Tuple // Eye position (point)
	LookAt core.Tuple // Target position (point)
	Up     core.Tuple // Up direction (vector)
	Width  int        // Image width in pixels
	Height int        // Image height in pixels
	VFov   float64    // Field of view in degrees
}

// DefaultCameraConfig returns a small camera looking at the origin from -z
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Center: core.Point(0, 1.5, -5),
		LookAt: core.Point(0, 1, 0),
		Up:     core.Vector(0, 1, 0),
		Width:  400,
		Height: 200,
		VFov:   60,
	}
}

// MergeCameraConfig overrides fields of base with the non-zero fields of override
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	result := base
	if override.Center != (core.Tuple{}) {
		result.Center = override.Center
	}
	if override.LookAt != (core.Tuple{}) {
		result.LookAt = override.LookAt
	}
	if override.Up != (core.Tuple{}) {
		result.Up = override.Up
	}
	if override.Width > 0 {
		result.Width = override.Width
	}
	if override.Height > 0 {
		result.Height = override.Height
	}
	if override.VFov > 0 {
		result.VFov = override.VFov
	}
	return result
}

// NewCameraFromConfig builds a camera and its view transform
func NewCameraFromConfig(cfg CameraConfig) (*Camera, error) {
	c, err := NewCamera(cfg.Width, cfg.Height, cfg.VFov*math.Pi/180)
	if err != nil {
		return nil, err
	}
	view, err := transform.View(cfg.Center, cfg.LookAt, cfg.Up)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCamera, err)
	}
	if err := c.SetTransform(view); err != nil {
		return nil, err
	}
	return c, nil
}
