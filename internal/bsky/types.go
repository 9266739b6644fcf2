// Package bsky is a minimal client for the Bluesky XRPC endpoints used to read
// an account's own posts: session creation and the author feed.
package bsky

import (
	"encoding/json"
	"fmt"
)

// PostType is the record type of an original post.
const PostType = "app.bsky.feed.post"

// Feed filters accepted by app.bsky.feed.getAuthorFeed.
const (
	FilterPostsWithReplies = "posts_with_replies"
	FilterPostsNoReplies   = "posts_no_replies"
)

// Session is the result of a successful login.
type Session struct {
	AccessJWT  string `json:"accessJwt"`
	RefreshJWT string `json:"refreshJwt"`
	DID        string `json:"did"`
	Handle     string `json:"handle"`
}

// Record is the author-supplied part of a post.
type Record struct {
	Type      string `json:"$type"`
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt"`
}

// Post is a post view as returned inside a feed item.
type Post struct {
	URI         string  `json:"uri"`
	CID         string  `json:"cid"`
	Record      *Record `json:"record,omitempty"`
	LikeCount   int     `json:"likeCount"`
	ReplyCount  int     `json:"replyCount"`
	RepostCount int     `json:"repostCount"`
	IndexedAt   string  `json:"indexedAt"`
}

// IsPost reports whether the record carries the original-post type tag.
func (p *Post) IsPost() bool {
	return p != nil && p.Record != nil && p.Record.Type == PostType
}

// Text returns the post body, or "" when the record is missing.
func (p *Post) Text() string {
	if p == nil || p.Record == nil {
		return ""
	}
	return p.Record.Text
}

// CreatedAt returns the raw author timestamp, or "" when the record is missing.
func (p *Post) CreatedAt() string {
	if p == nil || p.Record == nil {
		return ""
	}
	return p.Record.CreatedAt
}

// FeedItem is one entry of an author feed. Reason is set for reposts.
// DecodeErr is set when the entry could not be decoded; the item then holds
// no post.
type FeedItem struct {
	Post   *Post           `json:"post,omitempty"`
	Reason json.RawMessage `json:"reason,omitempty"`
	Reply  json.RawMessage `json:"reply,omitempty"`

	DecodeErr error `json:"-"`
}

// IsRepost reports whether the item reshares someone else's post.
func (fi FeedItem) IsRepost() bool {
	return len(fi.Reason) > 0 && string(fi.Reason) != "null"
}

// FeedPage is one page of app.bsky.feed.getAuthorFeed. An empty Cursor means
// there are no further pages.
type FeedPage struct {
	Feed   []FeedItem `json:"feed"`
	Cursor string     `json:"cursor,omitempty"`
}

// UnmarshalJSON decodes each feed entry on its own. An entry that does not
// fit the expected shape keeps its position with DecodeErr set instead of
// failing the whole page.
func (p *FeedPage) UnmarshalJSON(data []byte) error {
	var raw struct {
		Feed   []json.RawMessage `json:"feed"`
		Cursor string            `json:"cursor"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	p.Cursor = raw.Cursor
	p.Feed = make([]FeedItem, 0, len(raw.Feed))
	for i, msg := range raw.Feed {
		var item FeedItem
		if err := json.Unmarshal(msg, &item); err != nil {
			item = FeedItem{DecodeErr: fmt.Errorf("feed item %d: %w", i, err)}
		}
		p.Feed = append(p.Feed, item)
	}
	return nil
}
