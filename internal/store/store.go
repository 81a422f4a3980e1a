package store

import (
	"context"
	"errors"

	"github.com/metastable-void/alarkhabil-server/internal/model"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrAccountExists   = errors.New("account already exists")
	ErrDuplicateHandle = errors.New("duplicate handle")
	ErrDuplicateKey    = errors.New("duplicate public key")
)

// NewPost carries everything needed to create a post and its first
// revision in one transaction.
type NewPost struct {
	PostUUID     string
	ChannelID    int64
	AuthorID     int64
	RevisionUUID string
	CreatedDate  int64
	Title        string
	Text         string
	Tags         []string
}

// NewRevision carries a follow-up revision for an existing post,
// together with the tag set the post should end up with.
type NewRevision struct {
	PostID       int64
	AuthorID     int64
	RevisionUUID string
	CreatedDate  int64
	Title        string
	Text         string
	Tags         []string
}

type Store interface {
	AccountStore
	ChannelStore
	PostStore
	MetaStore
	CountAuthors(ctx context.Context) (int64, error)
	Close() error
}

type AccountStore interface {
	// CreateAuthor registers a new author under the invite's uuid and
	// binds the public key as its first credential, atomically. A uuid
	// already present yields ErrAccountExists.
	CreateAuthor(ctx context.Context, uuid, name string, registeredDate int64, keyAlgo string, publicKey []byte) error
	FindAuthorByPublicKey(ctx context.Context, publicKey []byte) (model.Author, error)
	GetAuthorByUUID(ctx context.Context, uuid string) (model.Author, error)
	ListAuthors(ctx context.Context) ([]model.AuthorSummary, error)
	UpdateAuthorProfile(ctx context.Context, authorID int64, name, descriptionText string) error
	SoftDeleteAuthor(ctx context.Context, authorID int64) error
	SoftDeleteAuthorByUUID(ctx context.Context, uuid string) error
	// ReplacePublicKey swaps the credential bound to oldKey for newKey
	// in place, atomically.
	ReplacePublicKey(ctx context.Context, oldKey []byte, newAlgo string, newKey []byte) error
}

type ChannelStore interface {
	CreateChannel(ctx context.Context, uuid, handle, name string, createdDate int64, languageCode string, ownerAuthorID int64) error
	GetChannelByUUID(ctx context.Context, uuid string) (model.Channel, error)
	GetChannelByHandle(ctx context.Context, handle string) (model.Channel, error)
	// GetChannelForAuthor resolves a channel only if the author is one
	// of its members; otherwise ErrNotFound.
	GetChannelForAuthor(ctx context.Context, channelUUID string, authorID int64) (model.Channel, error)
	UpdateChannel(ctx context.Context, channelID int64, handle, name, languageCode, descriptionText string) error
	SoftDeleteChannel(ctx context.Context, channelID int64) error
	ListChannels(ctx context.Context) ([]model.ChannelSummary, error)
	ListChannelsByAuthor(ctx context.Context, authorUUID string) ([]model.ChannelSummary, error)
	ListChannelAuthors(ctx context.Context, channelUUID string) ([]model.AuthorSummary, error)
}

type PostStore interface {
	CreatePost(ctx context.Context, p NewPost) error
	AddRevision(ctx context.Context, r NewRevision) error
	GetPostInfo(ctx context.Context, uuid string) (model.PostInfo, error)
	// GetPostForAuthor resolves a post only if the author is a member
	// of the post's channel; otherwise ErrNotFound.
	GetPostForAuthor(ctx context.Context, postUUID string, authorID int64) (model.Post, model.Channel, error)
	ListPosts(ctx context.Context) ([]model.PostSummary, error)
	ListPostsByChannel(ctx context.Context, channelUUID string) ([]model.PostSummary, error)
	ListPostsByAuthor(ctx context.Context, authorUUID string) ([]model.PostSummary, error)
	SoftDeletePostByUUID(ctx context.Context, uuid string) error
	ListTags(ctx context.Context) ([]model.TagCount, error)
}

type MetaStore interface {
	UpsertMetaPage(ctx context.Context, pageName, title, pageText string, updatedDate int64) error
	DeleteMetaPage(ctx context.Context, pageName string) error
	GetMetaPage(ctx context.Context, pageName string) (model.MetaPage, error)
	ListMetaPages(ctx context.Context) ([]model.MetaPageSummary, error)
}
