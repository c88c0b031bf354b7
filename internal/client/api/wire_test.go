package api

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/merimaa/feedclient/internal/client/models"
)

func TestBoolish(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
		err  bool
	}{
		{raw: `true`, want: true},
		{raw: `false`, want: false},
		{raw: `1`, want: true},
		{raw: `0`, want: false},
		{raw: `"1"`, want: true},
		{raw: `"0"`, want: false},
		{raw: `"true"`, want: true},
		{raw: `null`, want: false},
		{raw: `"yes"`, err: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var b boolish
			err := json.Unmarshal([]byte(tt.raw), &b)
			if tt.err {
				require.ErrorIs(t, err, ErrUnrecognizedShape)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, bool(b))
		})
	}
}

func TestFlexID(t *testing.T) {
	tests := []struct {
		raw  string
		want int64
		err  bool
	}{
		{raw: `42`, want: 42},
		{raw: `"42"`, want: 42},
		{raw: `null`, want: 0},
		{raw: `""`, want: 0},
		{raw: `"abc"`, err: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var f flexID
			err := json.Unmarshal([]byte(tt.raw), &f)
			if tt.err {
				require.ErrorIs(t, err, ErrUnrecognizedShape)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, int64(f))
		})
	}
}

func TestParseTime(t *testing.T) {
	assert.Equal(t,
		time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
		parseTime("2024-03-15 10:30:00"))
	assert.Equal(t,
		time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		parseTime("2024-03-15"))
	assert.False(t, parseTime("2024-03-15T10:30:00Z").IsZero())
	assert.True(t, parseTime("last tuesday").IsZero())
}

func TestDecodeComments(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want models.Comment
	}{
		{
			name: "nested author, comment_text, created_at",
			raw: `[{"id":"3","post_id":10,
				"user":{"id":"7","username":"meri","profile_image":"img.jpg"},
				"comment_text":"hello","created_at":"2024-03-15 10:30:00"}]`,
			want: models.Comment{
				ID: 3, PostID: 10,
				Author:    models.User{ID: 7, Username: "meri", ProfileImage: "img.jpg"},
				Text:      "hello",
				CreatedAt: time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
			},
		},
		{
			name: "flat author, text, timestamp",
			raw: `[{"id":3,"post_id":"10",
				"username":"meri","user_profile_image":"img.jpg",
				"text":"hello","timestamp":"2024-03-15T10:30:00Z"}]`,
			want: models.Comment{
				ID: 3, PostID: 10,
				Author:    models.User{Username: "meri", ProfileImage: "img.jpg"},
				Text:      "hello",
				CreatedAt: time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
			},
		},
		{
			name: "empty text string is still a comment",
			raw:  `[{"id":3,"username":"meri","comment_text":""}]`,
			want: models.Comment{
				ID:     3,
				Author: models.User{Username: "meri"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeComments(json.RawMessage(tt.raw))
			require.NoError(t, err)
			require.Len(t, got, 1)
			if diff := cmp.Diff(tt.want, got[0]); diff != "" {
				t.Errorf("comment mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeCommentsUnrecognized(t *testing.T) {
	// No text key at all.
	_, err := decodeComments(json.RawMessage(`[{"id":3,"username":"meri"}]`))
	require.ErrorIs(t, err, ErrUnrecognizedShape)

	// No author fields in either shape.
	_, err = decodeComments(json.RawMessage(`[{"id":3,"comment_text":"hello"}]`))
	require.ErrorIs(t, err, ErrUnrecognizedShape)
}

func TestDecodePosts(t *testing.T) {
	raw := json.RawMessage(`[
		{"id":"1","post_type":"post",
		 "user":{"id":7,"username":"meri"},
		 "description":"sunset","image_url":"a.jpg",
		 "total_likes":"3","total_comments":1,"share_count":"0",
		 "is_liked":"1","post_datetime":"2024-03-15 10:30:00"},
		{"id":2,"post_type":"message",
		 "username":"other","title":"hi","message":"body",
		 "is_liked":0,"created_at":"2024-03-15T10:30:00Z"}
	]`)

	posts, err := decodePosts(raw)
	require.NoError(t, err)
	require.Len(t, posts, 2)

	assert.Equal(t, models.PostTypeMedia, posts[0].Type)
	assert.Equal(t, int64(7), posts[0].Author.ID)
	assert.Equal(t, "a.jpg", posts[0].MediaURL)
	assert.Equal(t, int64(3), posts[0].Likes)
	assert.True(t, posts[0].Liked)
	assert.False(t, posts[0].CreatedAt.IsZero())

	assert.Equal(t, models.PostTypeMessage, posts[1].Type)
	assert.Equal(t, "other", posts[1].Author.Username)
	assert.Equal(t, "body", posts[1].Message)
	assert.False(t, posts[1].Liked)
}

func TestDecodePostsUnrecognized(t *testing.T) {
	_, err := decodePosts(json.RawMessage(`[{"post_type":"post"}]`))
	require.ErrorIs(t, err, ErrUnrecognizedShape)

	_, err = decodePosts(json.RawMessage(`[{"id":1}]`))
	require.ErrorIs(t, err, ErrUnrecognizedShape)
}

func TestDecodeLikes(t *testing.T) {
	ids, err := decodeLikes(json.RawMessage(`[{"post_id":1},{"post_id":"5"}]`))
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 5}, ids)

	ids, err = decodeLikes(nil)
	require.NoError(t, err)
	assert.Nil(t, ids)

	_, err = decodeLikes(json.RawMessage(`{"post_id":1}`))
	require.ErrorIs(t, err, ErrUnrecognizedShape)
}
