package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"Unhoster/internal/domain"
)

func TestObserveAndWriteTextfile(t *testing.T) {
	t.Parallel()

	c := NewCollector()
	img := domain.AssetReference{SourceURL: "http://a/x.png", Category: domain.CategoryImage, TargetName: "ax.png"}
	mdl := domain.AssetReference{SourceURL: "http://a/y.obj", Category: domain.CategoryModel, TargetName: "ay.obj"}

	c.Observe(domain.FetchResult{Reference: img, Data: []byte("1234"), Duration: 10 * time.Millisecond}, domain.OutcomeWritten)
	c.Observe(domain.FetchResult{Reference: img, Data: []byte("12"), Duration: 5 * time.Millisecond}, domain.OutcomeSkipped)
	c.Observe(domain.FetchResult{Reference: mdl, Err: errors.New("boom")}, domain.OutcomeFailed)

	if got := testutil.ToFloat64(c.assets.WithLabelValues("image", "written")); got != 1 {
		t.Fatalf("unexpected written count: %v", got)
	}
	if got := testutil.ToFloat64(c.assets.WithLabelValues("model", "failed")); got != 1 {
		t.Fatalf("unexpected failed count: %v", got)
	}
	if got := testutil.ToFloat64(c.bytes.WithLabelValues("image")); got != 6 {
		t.Fatalf("unexpected byte count: %v", got)
	}

	path := filepath.Join(t.TempDir(), "unhoster.prom")
	if err := c.WriteTextfile(path); err != nil {
		t.Fatalf("write textfile: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	if !strings.Contains(string(raw), `unhoster_assets_total{category="image",outcome="written"} 1`) {
		t.Fatalf("textfile lacks asset counter:\n%s", raw)
	}
}
