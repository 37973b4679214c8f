package model

import "strings"

// Kind is the category of a domain object.
type Kind string

const (
	KindSite    Kind = "site"
	KindPost    Kind = "post"
	KindComment Kind = "comment"
	KindMedia   Kind = "media"
	KindImage   Kind = "image"
	KindTag     Kind = "tag"
	KindUser    Kind = "user"
)

// kinds maps lower-cased element tags to kinds.
var kinds = map[string]Kind{
	"site":    KindSite,
	"post":    KindPost,
	"comment": KindComment,
	"media":   KindMedia,
	"image":   KindImage,
	"tag":     KindTag,
	"user":    KindUser,
}

// KindOf returns the kind for an element tag. Matching ignores case.
func KindOf(tag string) (Kind, bool) {
	k, ok := kinds[strings.ToLower(tag)]
	return k, ok
}

// Plural returns the attribute name used when objects of this kind are
// attached to another object as a collection.
func (k Kind) Plural() string {
	if k == KindMedia {
		return string(k)
	}
	return string(k) + "s"
}

func (k Kind) String() string {
	return string(k)
}
