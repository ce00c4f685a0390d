package lava

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnimations(t *testing.T) {
	tests := []struct {
		blob Blob
		want []Animation
	}{
		{
			blob: Blob{CX: 400, CY: 400, R: 180, Delay: 0},
			want: []Animation{
				{Attribute: "r", Values: "180;216;144;180", Dur: "8s", Begin: "0s"},
				{Attribute: "cx", Values: "400;460;360;400", Dur: "10s", Begin: "1s"},
				{Attribute: "cy", Values: "400;350;430;400", Dur: "12s", Begin: "2s"},
				{Attribute: "fill", Values: "url(#lavaGradient);#00CFFF;#0a192f;url(#lavaGradient)", Dur: "10s", Begin: "1s"},
			},
		},
		{
			blob: Blob{CX: 700, CY: 200, R: 120, Delay: 4},
			want: []Animation{
				{Attribute: "r", Values: "120;144;96;120", Dur: "8s", Begin: "4s"},
				{Attribute: "cx", Values: "700;760;660;700", Dur: "10s", Begin: "5s"},
				{Attribute: "cy", Values: "200;150;230;200", Dur: "12s", Begin: "6s"},
				{Attribute: "fill", Values: "url(#lavaGradient);#00CFFF;#0a192f;url(#lavaGradient)", Dur: "10s", Begin: "5s"},
			},
		},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.blob.Animations())
	}
}

func TestDefaultScene(t *testing.T) {
	s := DefaultScene()
	require.Len(t, s.Blobs, 3)
	assert.Equal(t, "0 0 1440 900", s.ViewBox)
	assert.Equal(t, 140.0, s.Blobs[1].R)
}
