package inference

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/alexanderramin/studysync/internal/domain"
	"github.com/alexanderramin/studysync/internal/vision"
	"github.com/disintegration/imaging"
)

// Client talks to a remote inference server and satisfies both
// vision.FaceDetector and vision.EmotionClassifier. Calls are never retried.
type Client struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

var (
	_ vision.FaceDetector      = (*Client)(nil)
	_ vision.EmotionClassifier = (*Client)(nil)
)

func NewClient(cfg Config, observer Observer) *Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
	}
}

// detectRequest is the JSON body sent to POST /detect_faces.
type detectRequest struct {
	Image string `json:"image"`
}

type detectResponse struct {
	Faces []vision.Region `json:"faces"`
}

// classifyResponse is the JSON body returned by POST /classify.
type classifyResponse struct {
	Scores []float64 `json:"scores"`
}

type labelsResponse struct {
	Emotions []domain.Emotion `json:"emotions"`
}

func (c *Client) Detect(ctx context.Context, img image.Image) ([]vision.Region, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encoding frame: %w", err)
	}
	body := detectRequest{
		Image: "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
	}

	var resp detectResponse
	if err := c.call(ctx, "detect_faces", http.MethodPost, "/detect_faces", body, &resp); err != nil {
		return nil, err
	}
	return resp.Faces, nil
}

func (c *Client) Classify(ctx context.Context, face vision.Tensor) ([]float64, error) {
	var resp classifyResponse
	if err := c.call(ctx, "classify", http.MethodPost, "/classify", face, &resp); err != nil {
		return nil, err
	}
	if len(resp.Scores) == 0 {
		return nil, fmt.Errorf("%w: empty score vector", ErrInvalidOutput)
	}
	return resp.Scores, nil
}

// Labels asks the server for its classifier label order.
func (c *Client) Labels(ctx context.Context) ([]domain.Emotion, error) {
	var resp labelsResponse
	if err := c.call(ctx, "emotions", http.MethodGet, "/emotions", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Emotions, nil
}

// Available checks whether the inference server is reachable.
func (c *Client) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.Endpoint+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func (c *Client) call(ctx context.Context, op, method, path string, in, out any) error {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout())
	defer cancel()

	err := c.doRequest(ctx, method, path, in, out)
	if err != nil && ctx.Err() != nil {
		err = fmt.Errorf("%w: %s", ErrTimeout, op)
	} else if isConnectionError(err) {
		err = fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	c.observer.OnCallComplete(CallEvent{
		Op:        op,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
		ErrorCode: errorCode(err),
	})
	return err
}

func (c *Client) doRequest(ctx context.Context, method, path string, in, out any) error {
	var reqBody io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.cfg.Endpoint+path, reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if in != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d: %s", ErrServer, httpResp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	return nil
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	case errors.Is(err, ErrServer):
		return "SERVER_ERROR"
	default:
		return "UNKNOWN"
	}
}
