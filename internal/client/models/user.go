// Package models defines the client-side view of the feed domain: users,
// posts, comments and the input records sent to the remote API.
package models

// User is the identity record the client keeps for the operator and renders
// for post/comment authors. Only a minimal projection of it is persisted
// locally after registration.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Mobile       string `json:"mobile,omitempty"`
	Address      string `json:"address,omitempty"`
	Bio          string `json:"bio,omitempty"`
	ProfileImage string `json:"profile_image,omitempty"`
	TotalPosts   int64  `json:"total_posts,omitempty"`
}

// RegistrationInput is the full profile submitted on sign-up. The client
// performs no field validation: the remote API is solely responsible for
// rejecting malformed input.
type RegistrationInput struct {
	Name         string `json:"name"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Mobile       string `json:"mobile"`
	Password     string `json:"password"`
	Address      string `json:"address"`
	ProfileImage string `json:"profile_image"` // base64, "" when absent
}
