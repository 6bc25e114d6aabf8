// Copyright 2026 The biomedRelExt Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package segment

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/bytedance/sonic/decoder"
	"github.com/cryptoradon/biomedRelExt/lib/document"
)

// DefaultHTTPTimeout bounds one remote segmentation call.
const DefaultHTTPTimeout = 30 * time.Second

type segmentRequest struct {
	Text string `json:"text"`
}

type segmentResponse struct {
	Sentences []document.Span `json:"sentences"`
}

// HTTPSegmenter delegates to a remote sentence-boundary model. It POSTs
// {"text": ...} and expects {"sentences": [{"start": s, "end": e}, ...]}.
type HTTPSegmenter struct {
	url    string
	client *http.Client
}

// NewHTTPSegmenter returns a segmenter calling url. A nil client gets
// DefaultHTTPTimeout.
func NewHTTPSegmenter(url string, client *http.Client) *HTTPSegmenter {
	if client == nil {
		client = &http.Client{Timeout: DefaultHTTPTimeout}
	}
	return &HTTPSegmenter{url: url, client: client}
}

// Segment implements Segmenter.
func (s *HTTPSegmenter) Segment(ctx context.Context, text string) ([]document.Span, error) {
	body, err := sonic.Marshal(segmentRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSegmenterUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrSegmenterUnavailable, resp.StatusCode)
	}

	var out segmentResponse
	if err := decoder.NewStreamDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return out.Sentences, nil
}
