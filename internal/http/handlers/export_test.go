package handlers

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	stdimage "image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"aimarketer/internal/imaging"
)

func testImageURI(t *testing.T) string {
	t.Helper()
	img := stdimage.NewNRGBA(stdimage.Rect(0, 0, 8, 8))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return imaging.EncodeDataURI("image/png", buf.Bytes())
}

func newExportApp() *App {
	app := newTestApp(nil, nil)
	app.Exporter = imaging.NewExporter(nil)
	return app
}

func postExport(app *App, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodPost, "/api/export", strings.NewReader(body)))
	return rec
}

func TestExportStreamsAttachment(t *testing.T) {
	app := newExportApp()
	body := fmt.Sprintf(`{"image":%q,"adjustments":{"format":"jpeg"},"preset":"Retro","generatedAt":1760000000000}`, testImageURI(t))

	rec := postExport(app, app.Export, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/jpeg" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="ai-image-1760000000000.jpg"` {
		t.Fatalf("unexpected disposition %q", cd)
	}
	if fx := rec.Header().Get("X-Filter-Expression"); !strings.Contains(fx, "sepia(60%)") {
		t.Fatalf("unexpected filter header %q", fx)
	}
	if _, format, err := imaging.Decode(rec.Body.Bytes()); err != nil || format != "jpeg" {
		t.Fatalf("body is not a jpeg: %v %s", err, format)
	}
}

func TestExportFailureIsGeneric(t *testing.T) {
	app := newExportApp()
	body := `{"image":"data:image/png;base64,bm90IGFuIGltYWdl"}`

	rec := postExport(app, app.Export, body)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var resp map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["error"] != "Failed to download image" {
		t.Fatalf("unexpected error: %#v", resp)
	}
}

func TestExportRemoteHostNotAllowed(t *testing.T) {
	app := newExportApp()
	rec := postExport(app, app.Export, `{"image":"https://example.com/a.png"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestExportValidation(t *testing.T) {
	app := newExportApp()
	for _, body := range []string{`{}`, `{"image":"  "}`, `{"image":"data:,x","adjustments":{"format":"gif"}}`, `[`} {
		if rec := postExport(app, app.Export, body); rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestExportBundleContainsEveryFormat(t *testing.T) {
	app := newExportApp()
	body := fmt.Sprintf(`{"image":%q,"generatedAt":1760000000000}`, testImageURI(t))

	rec := postExport(app, app.ExportBundle, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="ai-image-1760000000000.zip"` {
		t.Fatalf("unexpected disposition %q", cd)
	}
	data := rec.Body.Bytes()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	want := "ai-image-1760000000000.jpg,ai-image-1760000000000.webp,ai-image-1760000000000.png"
	if strings.Join(names, ",") != want {
		t.Fatalf("unexpected entries: %v", names)
	}
}
