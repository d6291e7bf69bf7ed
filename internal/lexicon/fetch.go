package lexicon

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/f3rmion/dhatu/internal/script"
)

// ErrFetch is returned when the lexicon resource cannot be read.
var ErrFetch = errors.New("lexicon unavailable")

// Fetch reads the raw dhatupatha from source, which is either a local path
// or an http(s) URL. A nil client uses http.DefaultClient.
func Fetch(ctx context.Context, source string, client *http.Client) (string, error) {
	if !isURL(source) {
		data, err := os.ReadFile(source)
		if err != nil {
			return "", fmt.Errorf("%w: reading %s: %v", ErrFetch, source, err)
		}
		return string(data), nil
	}

	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return "", fmt.Errorf("%w: creating request: %v", ErrFetch, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: fetching %s: %v", ErrFetch, source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: fetching %s: status %d", ErrFetch, source, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %v", ErrFetch, err)
	}

	return string(body), nil
}

// Load fetches, parses and indexes the lexicon.
func Load(ctx context.Context, source string, client *http.Client, conv script.Converter) (*Index, error) {
	raw, err := Fetch(ctx, source, client)
	if err != nil {
		return nil, err
	}
	return New(Parse(raw), conv), nil
}

func isURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}
