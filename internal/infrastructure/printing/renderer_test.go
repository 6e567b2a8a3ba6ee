package printing

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderError(t *testing.T) {
	cause := errors.New("disk full")
	err := NewRenderError(ErrCodeStorageFailed, "failed to write", cause)

	assert.Equal(t, "failed to write: disk full", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "bare", NewRenderError(ErrCodeRenderFailed, "bare", nil).Error())

	wrapped := fmt.Errorf("render sale 3: %w", err)
	assert.Equal(t, ErrCodeStorageFailed, RenderErrorCode(wrapped))
	assert.Equal(t, "", RenderErrorCode(cause))
}

func TestValidateRenderRequest(t *testing.T) {
	assert.Equal(t, ErrCodeInvalidHTML, RenderErrorCode(validateRenderRequest(nil)))
	assert.Equal(t, ErrCodeInvalidHTML, RenderErrorCode(validateRenderRequest(&RenderRequest{HTML: "  ", PageSize: PageSizeA4})))
	assert.Equal(t, ErrCodeInvalidPageSize, RenderErrorCode(validateRenderRequest(&RenderRequest{HTML: "<p>x</p>"})))
	assert.NoError(t, validateRenderRequest(&RenderRequest{HTML: "<p>x</p>", PageSize: PageSizeA5}))
}

func TestBuildPrintParams(t *testing.T) {
	r := &ChromedpRenderer{config: &ChromedpConfig{Scale: 1.0}}
	params := r.buildPrintParams(&RenderRequest{PageSize: PageSizeA4, Margins: DefaultMargins()})

	assert.InDelta(t, 8.27, params.paperWidth, 0.01)
	assert.InDelta(t, 11.69, params.paperHeight, 0.01)
	assert.InDelta(t, mmToInches(10), params.marginTop, 0.0001)
	assert.Equal(t, 1.0, params.scale)
}

func TestBuildCompleteHTML(t *testing.T) {
	full := "<!DOCTYPE html><html><body>x</body></html>"
	assert.Equal(t, full, buildCompleteHTML(&RenderRequest{HTML: full}))

	wrapped := buildCompleteHTML(&RenderRequest{HTML: "<p>x</p>", Title: "A & B"})
	assert.True(t, strings.HasPrefix(wrapped, "<!DOCTYPE html>"))
	assert.Contains(t, wrapped, "<title>A &amp; B</title>")
	assert.Contains(t, wrapped, "<body><p>x</p></body>")
}

func TestEstimatePageCount(t *testing.T) {
	pdf := []byte("<< /Type /Pages /Count 2 >> << /Type /Page >> << /Type /Page >>")
	assert.Equal(t, 2, estimatePageCount(pdf))
	assert.Equal(t, 1, estimatePageCount([]byte("garbage")))
}

func TestNewChromedpRenderer_Defaults(t *testing.T) {
	r := NewChromedpRenderer(nil)
	defer r.Close()
	assert.Equal(t, defaultChromeTimeout, r.config.DefaultTimeout)
	assert.Equal(t, defaultScale, r.config.Scale)
}

func TestLoadImageDataURI(t *testing.T) {
	uri, err := LoadImageDataURI("")
	require.NoError(t, err)
	assert.Empty(t, uri)

	path := filepath.Join(t.TempDir(), "logo.png")
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	require.NoError(t, os.WriteFile(path, png, 0o644))

	uri, err = LoadImageDataURI(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(uri), "data:image/png;base64,"))

	_, err = LoadImageDataURI(filepath.Join(t.TempDir(), "missing.png"))
	assert.Equal(t, ErrCodeResourceNotFound, RenderErrorCode(err))

	empty := filepath.Join(t.TempDir(), "empty.png")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	_, err = LoadImageDataURI(empty)
	assert.Equal(t, ErrCodeResourceNotFound, RenderErrorCode(err))
}
