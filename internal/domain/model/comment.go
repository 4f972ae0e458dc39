// Package model holds the comment moderation domain types.
package model

// ApprovalStatus is the moderation status a comment will be stored with.
// It mirrors the blog engine's value set, where approval is expressed as "0"
// or "1" and the terminal states as words.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "0"
	ApprovalApproved ApprovalStatus = "1"
	ApprovalSpam     ApprovalStatus = "spam"
	ApprovalTrash    ApprovalStatus = "trash"
)

// Comment is a newly submitted comment awaiting a moderation decision.
type Comment struct {
	Content     string
	Author      string
	AuthorEmail string
	AuthorURL   string
}

// Metadata returns the author details sent alongside the content for classification.
func (c Comment) Metadata() CommentMetadata {
	return CommentMetadata{
		Author: c.Author,
		Email:  c.AuthorEmail,
		URL:    c.AuthorURL,
	}
}

// CommentMetadata is the author information the classifier sees. The JSON
// field names are part of the prompt contract.
type CommentMetadata struct {
	Author string `json:"author"`
	Email  string `json:"email"`
	URL    string `json:"url"`
}
