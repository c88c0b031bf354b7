package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/merimaa/feedclient/internal/client/models"
	"github.com/merimaa/feedclient/internal/logging"
)

// HTTPClient talks JSON over HTTP to the feed API. Every route is a POST to
// baseURL + "/" + route. Safe for concurrent use.
type HTTPClient struct {
	baseURL string
	hc      *http.Client
	log     logging.Logger
}

func NewHTTPClient(baseURL string, timeout time.Duration, log logging.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: timeout},
		log:     log,
	}
}

var _ Client = (*HTTPClient)(nil)

// doPost sends body to the named route and decodes the response envelope.
// Outcomes follow the three-way contract:
//   - transport failure (network error, undecodable body): error wrapping ErrUnavailable
//   - server-reported failure (status discriminator not "success", or a
//     non-2xx code with a message): *ServerError
//   - success: the decoded envelope
func (c *HTTPClient) doPost(ctx context.Context, route, contentType string, body []byte) (*envelope, error) {
	url := c.baseURL + "/" + route

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, transportError(route, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.hc.Do(req)
	if err != nil {
		c.log.Warn(ctx, "request failed", "route", route, "error", err)
		return nil, transportError(route, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(route, err)
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		// Some statusless routes answer 200 with no body at all.
		if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
			return &envelope{}, nil
		}
		return nil, transportError(route, fmt.Errorf("status %d", resp.StatusCode))
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.log.Warn(ctx, "undecodable response", "route", route, "code", resp.StatusCode)
		return nil, transportError(route, fmt.Errorf("status %d: %v", resp.StatusCode, err))
	}

	// Routes that carry a discriminator use it regardless of the HTTP code;
	// statusless routes fall back to the code itself.
	if env.Status != "" && env.Status != statusSuccess {
		return nil, &ServerError{Message: env.Message, UserID: env.UserID}
	}
	if env.Status == "" && (resp.StatusCode < 200 || resp.StatusCode > 299) {
		if env.Message != "" {
			return nil, &ServerError{Message: env.Message, UserID: env.UserID}
		}
		return nil, transportError(route, fmt.Errorf("status %d", resp.StatusCode))
	}

	return &env, nil
}

func (c *HTTPClient) postJSON(ctx context.Context, route string, payload any) (*envelope, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%s: marshal request: %w", route, err)
	}
	return c.doPost(ctx, route, "application/json", body)
}

func (c *HTTPClient) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	env, err := c.postJSON(ctx, "login", map[string]string{
		"identifier": identifier,
		"password":   password,
	})
	if err != nil {
		return nil, err
	}

	var wu wireUser
	if len(env.User) == 0 {
		return nil, fmt.Errorf("%w: login response without a user record", ErrUnrecognizedShape)
	}
	if err := json.Unmarshal(env.User, &wu); err != nil {
		return nil, fmt.Errorf("%w: login user record: %v", ErrUnrecognizedShape, err)
	}

	return &LoginResult{User: wu.normalize(), Token: env.Token, Message: env.Message}, nil
}

func (c *HTTPClient) Register(ctx context.Context, input models.RegistrationInput, enc RegistrationEncoding) (*RegisterResult, error) {
	var env *envelope
	var err error

	switch enc {
	case EncodingMultipart:
		env, err = c.registerMultipart(ctx, input)
	default:
		env, err = c.postJSON(ctx, "register", input)
	}
	if err != nil {
		return nil, err
	}

	return &RegisterResult{UserID: env.UserID, Token: env.Token, Message: env.Message}, nil
}

// registerMultipart sends the profile as a multipart form with the image as
// a binary part. If the image field is not valid base64 it is passed along
// as a plain form field instead, matching the API's lenient intake.
func (c *HTTPClient) registerMultipart(ctx context.Context, input models.RegistrationInput) (*envelope, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"name":     input.Name,
		"username": input.Username,
		"email":    input.Email,
		"mobile":   input.Mobile,
		"password": input.Password,
		"address":  input.Address,
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("register: write field %s: %w", k, err)
		}
	}

	if input.ProfileImage != "" {
		if img, err := base64.StdEncoding.DecodeString(input.ProfileImage); err == nil {
			part, err := w.CreateFormFile("profile_image", "profile.jpg")
			if err != nil {
				return nil, fmt.Errorf("register: create image part: %w", err)
			}
			if _, err := part.Write(img); err != nil {
				return nil, fmt.Errorf("register: write image part: %w", err)
			}
		} else if err := w.WriteField("profile_image", input.ProfileImage); err != nil {
			return nil, fmt.Errorf("register: write image field: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("register: close multipart body: %w", err)
	}

	return c.doPost(ctx, "register", w.FormDataContentType(), buf.Bytes())
}

func (c *HTTPClient) AllPosts(ctx context.Context, userID int64) ([]models.Post, error) {
	env, err := c.postJSON(ctx, "all_posts", map[string]any{"user_id": userID})
	if err != nil {
		return nil, err
	}
	return decodePosts(env.Data)
}

func (c *HTTPClient) UserPosts(ctx context.Context, userID int64) ([]models.Post, error) {
	env, err := c.postJSON(ctx, "get-user-posts", map[string]any{"user_id": userID})
	if err != nil {
		return nil, err
	}
	return decodePosts(env.Data)
}

func (c *HTTPClient) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	env, err := c.postJSON(ctx, "users", map[string]any{"user_id": userID})
	if err != nil {
		return nil, err
	}
	if len(env.User) == 0 {
		return nil, fmt.Errorf("%w: users response without a user record", ErrUnrecognizedShape)
	}
	var wu wireUser
	if err := json.Unmarshal(env.User, &wu); err != nil {
		return nil, fmt.Errorf("%w: user record: %v", ErrUnrecognizedShape, err)
	}
	u := wu.normalize()
	return &u, nil
}

func (c *HTTPClient) UpdateUser(ctx context.Context, upd ProfileUpdate) error {
	_, err := c.postJSON(ctx, "update-user", map[string]any{
		"user_id":       upd.UserID,
		"name":          upd.Name,
		"bio":           upd.Bio,
		"profile_image": upd.ProfileImage,
	})
	return err
}

func (c *HTTPClient) AddPost(ctx context.Context, input models.PostInput) error {
	payload := map[string]any{
		"user_id":     input.UserID,
		"post_type":   string(input.Type),
		"title":       input.Title,
		"message":     input.Message,
		"description": input.Text,
		"location":    input.Location,
	}
	switch input.Type {
	case models.PostTypeMedia:
		payload["media"] = input.Media
	case models.PostTypeAudio:
		payload["audio"] = input.Audio
	}

	_, err := c.postJSON(ctx, "add-post", payload)
	return err
}

func (c *HTTPClient) LikePost(ctx context.Context, userID, postID int64) error {
	_, err := c.postJSON(ctx, "like-post", map[string]any{"user_id": userID, "post_id": postID})
	return err
}

func (c *HTTPClient) UnlikePost(ctx context.Context, userID, postID int64) error {
	_, err := c.postJSON(ctx, "unlike-post", map[string]any{"user_id": userID, "post_id": postID})
	return err
}

func (c *HTTPClient) UserLikes(ctx context.Context, userID int64) ([]int64, error) {
	env, err := c.postJSON(ctx, "get-user-likes", map[string]any{"user_id": userID})
	if err != nil {
		return nil, err
	}
	return decodeLikes(env.Likes)
}

func (c *HTTPClient) AddComment(ctx context.Context, userID, postID int64, text string) error {
	_, err := c.postJSON(ctx, "add-comment", map[string]any{
		"user_id":      userID,
		"post_id":      postID,
		"comment_text": text,
	})
	return err
}

func (c *HTTPClient) PostComments(ctx context.Context, postID int64) ([]models.Comment, error) {
	env, err := c.postJSON(ctx, "get-post-comments", map[string]any{"post_id": postID})
	if err != nil {
		return nil, err
	}
	return decodeComments(env.Data)
}

func (c *HTTPClient) SharePost(ctx context.Context, userID, postID int64) error {
	_, err := c.postJSON(ctx, "share-post", map[string]any{"user_id": userID, "post_id": postID})
	return err
}
