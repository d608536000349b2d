package storage

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-ledmatrix/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir())
	require.NoError(t, err)
	return s
}

func intPtr(v int) *int { return &v }

func testPlaylist() model.Playlist {
	return model.Playlist{
		Items: []model.PlayListItem{
			{
				ID:       "one",
				Duration: intPtr(5),
				Content: model.ContentData{
					Type: model.ContentText,
					Text: &model.TextContent{Text: "hello", Color: model.Color{255, 0, 0}, Speed: 50},
				},
			},
			{
				ID:          "two",
				RepeatCount: intPtr(2),
				BorderEffect: &model.BorderEffect{
					Kind:   model.BorderGradient,
					Colors: []model.Color{{255, 0, 0}, {0, 0, 255}},
				},
				Content: model.ContentData{
					Type: model.ContentText,
					Text: &model.TextContent{Text: "scrolling", Scroll: true, Color: model.Color{0, 255, 0}, Speed: 30},
				},
			},
		},
		ActiveIndex: 1,
		Repeat:      true,
	}
}

func TestPlaylistRoundTrip(t *testing.T) {
	s := newTestStore(t)

	_, ok := s.LoadPlaylist()
	assert.False(t, ok, "empty store has no playlist")

	require.NoError(t, s.SavePlaylist(testPlaylist()))

	loaded, ok := s.LoadPlaylist()
	require.True(t, ok)
	require.Len(t, loaded.Items, 2)
	assert.Equal(t, "one", loaded.Items[0].ID)
	assert.Equal(t, "hello", loaded.Items[0].Content.Text.Text)
	assert.True(t, loaded.Items[1].Content.Text.Scroll)
	require.NotNil(t, loaded.Items[1].BorderEffect)
	assert.Equal(t, model.BorderGradient, loaded.Items[1].BorderEffect.Kind)
	assert.True(t, loaded.Repeat)

	// Loading always restarts playback at the first item.
	assert.Equal(t, 0, loaded.ActiveIndex)
}

func TestBrightnessRoundTrip(t *testing.T) {
	s := newTestStore(t)

	_, ok := s.LoadBrightness()
	assert.False(t, ok)

	require.NoError(t, s.SaveBrightness(73))
	b, ok := s.LoadBrightness()
	require.True(t, ok)
	assert.Equal(t, 73, b)
}

func encodePNG(t *testing.T, w, h int, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestImageSaveAndDecode(t *testing.T) {
	s := newTestStore(t)

	data := encodePNG(t, 4, 3, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	require.NoError(t, s.SaveImage("img1", data))

	decoded := s.Decode("img1")
	require.NotNil(t, decoded)
	assert.Equal(t, 4, decoded.Width)
	assert.Equal(t, 3, decoded.Height)
	require.Len(t, decoded.Pixels, 4*3*3)
	assert.Equal(t, uint8(10), decoded.Pixels[0])
	assert.Equal(t, uint8(20), decoded.Pixels[1])
	assert.Equal(t, uint8(30), decoded.Pixels[2])
}

func TestDecodeMissingImageIsNil(t *testing.T) {
	s := newTestStore(t)
	assert.Nil(t, s.Decode("nope"))
	// Cached failure stays nil.
	assert.Nil(t, s.Decode("nope"))
}

func TestDecodeCacheInvalidatedOnSave(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.SaveImage("img", encodePNG(t, 2, 2, color.RGBA{R: 1, A: 255})))
	first := s.Decode("img")
	require.NotNil(t, first)
	assert.Equal(t, uint8(1), first.Pixels[0])

	require.NoError(t, s.SaveImage("img", encodePNG(t, 2, 2, color.RGBA{R: 9, A: 255})))
	second := s.Decode("img")
	require.NotNil(t, second)
	assert.Equal(t, uint8(9), second.Pixels[0])
}

func TestCorruptImageDecodesToNil(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SaveImage("bad", []byte("not a png")))
	assert.Nil(t, s.Decode("bad"))
}

func TestCleanupUnusedImages(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.SaveImage("used", encodePNG(t, 1, 1, color.RGBA{A: 255})))
	require.NoError(t, s.SaveImage("orphan", encodePNG(t, 1, 1, color.RGBA{A: 255})))

	playlist := model.Playlist{
		Items: []model.PlayListItem{
			{
				ID:       "img-item",
				Duration: intPtr(5),
				Content: model.ContentData{
					Type: model.ContentImage,
					Image: &model.ImageContent{
						ImageID:       "used",
						NaturalWidth:  1,
						NaturalHeight: 1,
						Transform:     model.ImageTransform{Scale: 1},
					},
				},
			},
		},
	}

	removed := s.CleanupUnusedImages(playlist)
	assert.Equal(t, 1, removed)
	assert.NotNil(t, s.LoadImage("used"))
	assert.Nil(t, s.LoadImage("orphan"))
}
