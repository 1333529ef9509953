package model

type Link struct {
	ID          string  `json:"id"`
	URL         string  `json:"url"`
	Description string  `json:"description"`
	CreatedAt   string  `json:"createdAt"`
	PostedByID  *string `json:"postedById,omitempty"`
}

type Comment struct {
	ID        string `json:"id"`
	Body      string `json:"body"`
	LinkID    string `json:"linkId"`
	CreatedAt string `json:"createdAt"`
}

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type AuthPayload struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// NewLinkEvent is pushed to newLink subscribers after a link is stored.
type NewLinkEvent struct {
	NewLink *Link `json:"newLink"`
}

// Operation arguments

type FeedArgs struct {
	FilterNeedle *string
	Skip         *int
	Take         *int
}

type PostLinkInput struct {
	URL         string
	Description string
}

type PostCommentInput struct {
	LinkID string
	Body   string
}

type SignupInput struct {
	Email    string
	Password string
	Name     string
}

type LoginInput struct {
	Email    string
	Password string
}
