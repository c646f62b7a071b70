package render

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/vantage/pkg/math3d"
)

func TestSerializeCameraLayout(t *testing.T) {
	c := NewCamera(WithWorldMatrix(math3d.Translate(math3d.V3(1, 2, 3))))
	data := SerializeCamera(nil, c)

	require.Len(t, data, PoseSize)

	// Three rows of four: rotation/scale row then translation.
	want := []float32{
		1, 0, 0, 1,
		0, 1, 0, 2,
		0, 0, 1, 3,
	}
	got := make([]float32, len(want))
	for i := range got {
		got[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	assert.Equal(t, want, got)
}

func TestSerializeCameraRoundTrip(t *testing.T) {
	src := NewCamera()
	world := math3d.Translate(math3d.V3(-4.5, 12.25, 300)).
		Mul(math3d.RotateY(0.8)).
		Mul(math3d.RotateX(-0.4)).
		Mul(math3d.ScaleUniform(1.5))
	src.SetWorldMatrix(world)

	data := SerializeCamera([]byte{0xAA}, src)
	require.Len(t, data, 1+PoseSize)

	dst := NewCamera()
	n, err := DeserializeCamera(dst, data[1:])
	require.NoError(t, err)
	assert.Equal(t, PoseSize, n)

	got := dst.WorldMatrix()
	for i := range got {
		if i%4 == 3 {
			continue
		}
		assert.Equal(t, float64(float32(world[i])), got[i], "world[%d]", i)
	}
	assert.Equal(t, []float64{0, 0, 0, 1}, []float64{got[3], got[7], got[11], got[15]}, "bottom row")
	assertMat4Near(t, math3d.Identity(), dst.ViewMatrix().Mul(got), 1e-9, "view matrix not refreshed")
	assertMat4Near(t, dst.ProjectionMatrix().Mul(dst.ViewMatrix()), dst.ClipFromWorldMatrix(), 1e-12, "clip-from-world not refreshed")
}

func TestDeserializeCameraShort(t *testing.T) {
	c := NewCamera()
	before := c.WorldMatrix()

	_, err := DeserializeCamera(c, make([]byte, PoseSize-1))
	require.ErrorIs(t, err, ErrShortPose)
	assert.Equal(t, before, c.WorldMatrix(), "camera changed on error")
}

func TestPoseShareString(t *testing.T) {
	c := NewCamera(WithWorldMatrix(math3d.TargetTo(math3d.V3(3, 4, 5), math3d.V3(0, 0, 0), math3d.V3(0, 1, 0))))
	pose := PoseOf(c)

	s := pose.String()
	parsed, err := ParsePose(s)
	require.NoError(t, err, "ParsePose(%q)", s)
	assert.Equal(t, s, parsed.String())

	dst := NewCamera()
	parsed.Apply(dst)
	assertVec3Near(t, math3d.V3(3, 4, 5), dst.Position(), 1e-5)
}

func TestParsePoseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		short bool
	}{
		{"bad base64", "!!!", false},
		{"too short", "AAAA", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParsePose(tc.input)
			require.Error(t, err)
			if tc.short {
				assert.ErrorIs(t, err, ErrShortPose)
			} else {
				assert.NotErrorIs(t, err, ErrShortPose)
			}
		})
	}
}

func TestPoseBinaryMarshaler(t *testing.T) {
	in := Pose{Matrix: math3d.Translate(math3d.V3(7, 8, 9))}
	data, err := in.MarshalBinary()
	require.NoError(t, err)

	var out Pose
	require.NoError(t, out.UnmarshalBinary(data))
	assert.Equal(t, in, out)
}
