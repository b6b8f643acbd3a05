package vision

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"

	"scroll-stitch/internal/domain/entity"
)

func params(tier entity.CornerTier) entity.ExtractParams {
	return entity.ExtractParams{Threshold: 24, PatchSize: 28, Tier: tier}
}

func TestExtractor_KeepsStrictTierWithManyCorners(t *testing.T) {
	img, dots := dotsImage(20, 15)
	ext := NewExtractor()

	f, err := ext.Extract(img, params(entity.TierUndecided))
	require.NoError(t, err)
	require.Equal(t, entity.Tier12, f.Tier)
	require.Len(t, f.Keypoints, dots)
	require.Len(t, f.Descriptors, dots)
	require.Len(t, f.Descriptors[0], 28)
}

func TestExtractor_FallsBackToFast9(t *testing.T) {
	img := squareImage(40, 40, 10, 10, 30, 30)

	f, err := NewExtractor().Extract(img, params(entity.TierUndecided))
	require.NoError(t, err)
	require.Equal(t, entity.Tier9, f.Tier)
	require.NotEmpty(t, f.Keypoints)
}

func TestExtractor_FixedTier(t *testing.T) {
	img := squareImage(40, 40, 10, 10, 30, 30)

	_, err := NewExtractor().Extract(img, params(entity.Tier12))
	require.ErrorIs(t, err, entity.ErrNoFeatures)

	f, err := NewExtractor().Extract(img, params(entity.Tier9))
	require.NoError(t, err)
	require.Equal(t, entity.Tier9, f.Tier)
}

func TestExtractor_NoFeatures(t *testing.T) {
	_, err := NewExtractor().Extract(flatGray(64, 64, 200), params(entity.TierUndecided))
	require.ErrorIs(t, err, entity.ErrNoFeatures)
}

func TestExtractor_DownsamplesCrossAxis(t *testing.T) {
	img, _ := dotsImage(20, 15)
	p := params(entity.Tier12)
	p.Width, p.Height = 100, 150

	f, err := NewExtractor().Extract(img, p)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 100, 150), f.Gray.Bounds())
	for _, kp := range f.Keypoints {
		require.Less(t, kp.X, 100)
	}
}

func TestGrayscale_RGBAMatchesGenericPath(t *testing.T) {
	rgba := image.NewRGBA(image.Rect(0, 0, 16, 8))
	for i := range rgba.Pix {
		rgba.Pix[i] = uint8(i * 37)
	}
	for i := 3; i < len(rgba.Pix); i += 4 {
		rgba.Pix[i] = 255
	}

	nrgba := image.NewNRGBA(rgba.Bounds())
	copy(nrgba.Pix, rgba.Pix)

	require.Equal(t, Grayscale(nrgba).Pix, Grayscale(rgba).Pix)
}
