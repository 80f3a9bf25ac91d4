package captcha

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Solver turns a CEAC captcha image into the digits typed into the form.
// Implementations must not retry; a solve failure fails the whole query.
type Solver interface {
	Solve(ctx context.Context, image []byte) (string, error)
}

// HTTPSolver delegates solving to a sidecar service that accepts the raw
// image bytes and answers with the token as plain text.
type HTTPSolver struct {
	URL  string
	HTTP *http.Client
}

func (s *HTTPSolver) Solve(ctx context.Context, image []byte) (string, error) {
	httpc := s.HTTP
	if httpc == nil {
		httpc = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(image))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := httpc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("captcha solver returned http %d", resp.StatusCode)
	}
	token := strings.TrimSpace(string(b))
	if token == "" {
		return "", errors.New("captcha solver returned an empty token")
	}
	return token, nil
}
