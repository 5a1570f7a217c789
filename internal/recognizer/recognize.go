package recognizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/google/uuid"
)

// errorResponse is the recognizer's failure payload: a human message plus a
// machine-readable status tag.
type errorResponse struct {
	Error  string `json:"error"`
	Status string `json:"status"`
}

// Recognize submits one captured frame and maps the response into a typed
// Outcome. Every failure path resolves to Failed; no error crosses this
// boundary. Without a token it short-circuits locally and never touches
// the network.
func (c *Client) Recognize(ctx context.Context, frame []byte) Outcome {
	if c.token == "" {
		return Failed(KindUnauthenticated, "no session token, log in first")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", "frame.jpg")
	if err != nil {
		return Failed(KindUnknown, fmt.Sprintf("could not create form file: %v", err))
	}
	if _, err := part.Write(frame); err != nil {
		return Failed(KindUnknown, fmt.Sprintf("could not write frame data: %v", err))
	}
	if err := writer.Close(); err != nil {
		return Failed(KindUnknown, fmt.Sprintf("could not close writer: %v", err))
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.resolveURL("recognize"), &body)
	if err != nil {
		return Failed(KindUnknown, fmt.Sprintf("could not create request: %v", err))
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	// Idempotency key so the server can dedup a resubmitted frame.
	req.Header.Set("X-Capture-ID", uuid.NewString())

	resp, err := c.transport.Do(req)
	if err != nil {
		// Transport errors and the bounded timeout both land here.
		return Failed(KindNetworkUnreachable, err.Error())
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Failed(KindNetworkUnreachable, fmt.Sprintf("could not read response body: %v", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var failure errorResponse
		if err := json.Unmarshal(respBody, &failure); err != nil || failure.Error == "" {
			return Failed(KindUnknown, fmt.Sprintf("request failed with status %d: %s", resp.StatusCode, string(respBody)))
		}
		return Failed(kindFromTag(failure.Status), failure.Error)
	}

	return parseIdentities(respBody)
}

// parseIdentities decodes a success payload. The recognizer normally sends
// a JSON array, one element per face; older server builds send a single
// object, which is accepted for compatibility. An empty array is a valid
// "nobody in frame" result. A 2xx body that carries an error object
// instead of an identity is still a failure.
func parseIdentities(body []byte) Outcome {
	var ids []Identity
	if err := json.Unmarshal(body, &ids); err != nil {
		var single Identity
		if err := json.Unmarshal(body, &single); err != nil {
			return Failed(KindUnknown, fmt.Sprintf("could not unmarshal response: %v", err))
		}
		if single.Name == "" && single.RollNumber == "" {
			var failure errorResponse
			if err := json.Unmarshal(body, &failure); err == nil && failure.Error != "" {
				return Failed(kindFromTag(failure.Status), failure.Error)
			}
			return Failed(KindUnknown, fmt.Sprintf("response carries no identity: %s", string(body)))
		}
		ids = []Identity{single}
	}

	for i := range ids {
		if ids[i].Status == "" {
			ids[i].Status = "Recognized"
		}
	}
	return Recognized(ids)
}
