package render

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/taigrr/vantage/pkg/math3d"
)

// PoseSize is the encoded size of a camera pose in bytes.
const PoseSize = 48

// ErrShortPose is returned when fewer than PoseSize bytes are available.
var ErrShortPose = errors.New("pose data too short")

// Pose is the upper 3x4 part of a camera world matrix. The bottom row is
// always (0, 0, 0, 1).
//
// On the wire it is twelve little-endian float32 values, three rows of
// four, so the column-major matrix is repacked row by row.
type Pose struct {
	Matrix math3d.Mat4
}

// PoseOf captures the pose of c.
func PoseOf(c *Camera) Pose {
	return Pose{Matrix: c.worldMatrix}
}

// Apply moves c to the pose.
func (p Pose) Apply(c *Camera) {
	c.SetWorldMatrix(p.Matrix)
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (p Pose) MarshalBinary() ([]byte, error) {
	return appendMat4(make([]byte, 0, PoseSize), p.Matrix), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (p *Pose) UnmarshalBinary(data []byte) error {
	m, err := readMat4(data)
	if err != nil {
		return err
	}
	p.Matrix = m
	return nil
}

// String returns the pose as a URL-safe base64 share string.
func (p Pose) String() string {
	b, _ := p.MarshalBinary()
	return base64.RawURLEncoding.EncodeToString(b)
}

// ParsePose decodes a share string produced by Pose.String.
func ParsePose(s string) (Pose, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return Pose{}, fmt.Errorf("decode pose: %w", err)
	}
	var p Pose
	if err := p.UnmarshalBinary(b); err != nil {
		return Pose{}, fmt.Errorf("decode pose: %w", err)
	}
	return p, nil
}

// SerializeCamera appends the camera pose to dst.
func SerializeCamera(dst []byte, c *Camera) []byte {
	return appendMat4(dst, c.worldMatrix)
}

// DeserializeCamera reads a pose from data into c and returns the number of
// bytes consumed. The view matrix and frustum are refreshed.
func DeserializeCamera(c *Camera, data []byte) (int, error) {
	m, err := readMat4(data)
	if err != nil {
		return 0, err
	}
	c.SetWorldMatrix(m)
	return PoseSize, nil
}

func appendMat4(dst []byte, m math3d.Mat4) []byte {
	for row := range 3 {
		for col := range 4 {
			dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(float32(m[col*4+row])))
		}
	}
	return dst
}

func readMat4(data []byte) (math3d.Mat4, error) {
	if len(data) < PoseSize {
		return math3d.Mat4{}, fmt.Errorf("%w: got %d bytes, want %d", ErrShortPose, len(data), PoseSize)
	}
	var m math3d.Mat4
	for row := range 3 {
		for col := range 4 {
			off := (row*4 + col) * 4
			m[col*4+row] = float64(math.Float32frombits(binary.LittleEndian.Uint32(data[off:])))
		}
	}
	m[15] = 1
	return m, nil
}
