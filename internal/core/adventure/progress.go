// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package adventure

import (
	"time"

	"github.com/taibuivan/sunday/internal/core/activity"
	"github.com/taibuivan/sunday/internal/platform/images"
	"github.com/taibuivan/sunday/internal/platform/validate"
)

// # Progress Lists

// List names one of a user's adventure lists.
type List string

const (
	// ListCompleted holds the adventures a user has done.
	ListCompleted List = "completed"

	// ListTodo holds the adventures a user plans to do. Completing an
	// adventure takes it off this list.
	ListTodo List = "todo"
)

// Mark puts one adventure on a user's list.
type Mark struct {
	UserID      string `json:"-"`
	AdventureID string `json:"-"`
	Public      *bool  `json:"public"`
}

// Validate checks that the mark names both sides and its visibility.
func (mark Mark) Validate() error {
	validator := &validate.Validator{}
	validator.Required("userId", mark.UserID).
		Required("adventureId", mark.AdventureID).
		Present("public", mark.Public != nil)

	return validator.Err()
}

// ListedAdventure is an adventure as it appears on a user's list.
type ListedAdventure struct {
	AdventureID   string        `json:"adventure_id"`
	Name          string        `json:"adventure_name"`
	AdventureType activity.Type `json:"adventure_type"`
	NearestCity   string        `json:"nearest_city"`
	Public        bool          `json:"public"`
	DateCreated   time.Time     `json:"date_created"`
}

// ListedUser is a user as they appear on an adventure's list.
type ListedUser struct {
	UserID            string `json:"user_id"`
	DisplayName       string `json:"display_name"`
	Email             string `json:"email"`
	ProfilePictureURL string `json:"profile_picture_url"`
}

// Progress is one list entry seen from both sides.
type Progress struct {
	List      List            `json:"list"`
	Adventure ListedAdventure `json:"adventure"`
	User      ListedUser      `json:"user"`
}

// # Pictures

// Picture registers an uploaded image against an adventure.
type Picture struct {
	ID           string `json:"id"`
	AdventureID  string `json:"adventure_id"`
	CreatorID    string `json:"creator_id"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// Validate checks the picture before it is stored.
func (picture Picture) Validate() error {
	validator := &validate.Validator{}
	validator.Required("adventureId", picture.AdventureID).
		Required("creatorId", picture.CreatorID).
		Required("url", picture.URL).
		MaxLen("url", picture.URL, 2048).
		Custom("url", picture.URL != "" && !images.IsPictureURL(picture.URL), "Must point to an uploaded image")

	return validator.Err()
}
