package api

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"

	"go.uber.org/zap"
)

// DefaultQuestion is sent when a document is attached without any text.
const DefaultQuestion = "Please analyze this document."

// FallbackReply stands in when the server answers 2xx without a response
// field.
const FallbackReply = "Sorry, I could not reach the server."

// Attachment is an optional file sent along with a chat question.
type Attachment struct {
	Name   string
	Reader io.Reader
}

// Chat posts a question (and optional attachment) to the assistant
// endpoint and returns the reply text. The caller decides how failures
// surface; this client only reports them.
func (c *Client) Chat(ctx context.Context, question string, attachment *Attachment) (string, error) {
	if question == "" {
		question = DefaultQuestion
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("question", question); err != nil {
		return "", err
	}
	if attachment != nil {
		part, err := writer.CreateFormFile("file", attachment.Name)
		if err != nil {
			return "", err
		}
		if _, err := io.Copy(part, attachment.Reader); err != nil {
			return "", err
		}
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("/api/chat"), &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var reply struct {
		Response string `json:"response"`
	}
	if err := c.do(req, &reply); err != nil {
		return "", err
	}

	c.logger.Debug("chat reply received", zap.Int("length", len(reply.Response)))
	if reply.Response == "" {
		return FallbackReply, nil
	}
	return reply.Response, nil
}
