package data

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ulikunitz/xz"
	"github.com/xyproto/unzip"

	"github.com/rustyeddy/stocksim/market"
)

// Fetcher downloads bar archives into a CSVProvider data directory. Archives
// may be plain CSV, a .csv.xz stream, or a zip whose members land in the
// ticker's directory.
type Fetcher struct {
	Dir    string
	Client *http.Client
}

// NewFetcher creates a fetcher writing under dir.
func NewFetcher(dir string) *Fetcher {
	return &Fetcher{
		Dir:    dir,
		Client: &http.Client{Timeout: 45 * time.Second},
	}
}

// Fetch downloads url and installs it as the bar file for (ticker, interval).
// Already-installed files are left alone.
func (f *Fetcher) Fetch(ctx context.Context, url, ticker string, iv market.Interval) error {
	dst := filepath.Join(f.Dir, ticker, string(iv)+".csv")
	if st, err := os.Stat(dst); err == nil && st.Size() > 0 {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	tmp, err := f.download(ctx, url)
	if err != nil {
		return fmt.Errorf("download %s: %w", url, err)
	}
	defer os.Remove(tmp)

	switch {
	case strings.HasSuffix(url, ".zip"):
		return unzip.Extract(tmp, filepath.Dir(dst))
	case strings.HasSuffix(url, ".xz"):
		return decompressXZ(tmp, dst)
	default:
		return os.Rename(tmp, dst)
	}
}

func (f *Fetcher) download(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("http status %d", resp.StatusCode)
	}

	out, err := os.CreateTemp(f.Dir, "fetch-*.part")
	if err != nil {
		return "", err
	}
	_, copyErr := io.Copy(out, resp.Body)
	closeErr := out.Close()
	if copyErr != nil {
		_ = os.Remove(out.Name())
		return "", copyErr
	}
	if closeErr != nil {
		_ = os.Remove(out.Name())
		return "", closeErr
	}
	return out.Name(), nil
}

func decompressXZ(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	r, err := xz.NewReader(in)
	if err != nil {
		return err
	}

	tmp := dst + ".part"
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}
	_, copyErr := io.Copy(out, r)
	closeErr := out.Close()
	if copyErr != nil {
		_ = os.Remove(tmp)
		return copyErr
	}
	if closeErr != nil {
		_ = os.Remove(tmp)
		return closeErr
	}
	return os.Rename(tmp, dst)
}
