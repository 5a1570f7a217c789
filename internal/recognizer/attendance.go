package recognizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// statusResponse is the recognizer's generic mutation result.
type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// DeleteAttendance asks the server to drop today's attendance record for
// one roll number. A nil return means the server confirmed the deletion;
// callers must not touch local state otherwise.
func (c *Client) DeleteAttendance(ctx context.Context, rollNumber string) error {
	result, err := c.postJSON(ctx, "delete_attendance", map[string]string{"roll_number": rollNumber})
	if err != nil {
		return err
	}
	if result.Status != "success" {
		return fmt.Errorf("deletion not confirmed: %s", result.Message)
	}
	return nil
}

// ClearAttendance asks the server to drop all of today's attendance
// records for the session owner.
func (c *Client) ClearAttendance(ctx context.Context) error {
	result, err := c.postJSON(ctx, "clear_attendance", nil)
	if err != nil {
		return err
	}
	if result.Status != "success" {
		return fmt.Errorf("clear not confirmed: %s", result.Message)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, endpoint string, requestBody any) (*statusResponse, error) {
	if c.token == "" {
		return nil, fmt.Errorf("no session token, log in first")
	}

	var bodyReader io.Reader
	if requestBody != nil {
		jsonBody, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("could not marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.resolveURL(endpoint), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if requestBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.transport.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read response body: %w", err)
	}

	var result statusResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("could not unmarshal response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if result.Message != "" {
			return nil, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, result.Message)
		}
		return nil, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}
	return &result, nil
}

// RegisterStudent uploads a reference photo with the student's name and
// roll number so the server can store a face encoding for them.
func (c *Client) RegisterStudent(ctx context.Context, name, rollNumber string, image []byte) error {
	if c.token == "" {
		return fmt.Errorf("no session token, log in first")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("image", "student.jpg")
	if err != nil {
		return fmt.Errorf("could not create form file: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return fmt.Errorf("could not write image data: %w", err)
	}
	if err := writer.WriteField("name", name); err != nil {
		return fmt.Errorf("could not write name field: %w", err)
	}
	if err := writer.WriteField("roll_number", rollNumber); err != nil {
		return fmt.Errorf("could not write roll_number field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("could not close writer: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.resolveURL("register"), &body)
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.transport.Do(req)
	if err != nil {
		return fmt.Errorf("could not send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("registration failed with status %d: %s", resp.StatusCode, readErrorBody(resp.Body))
	}
	return nil
}
