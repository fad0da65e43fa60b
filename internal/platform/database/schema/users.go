// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// UsersTable represents the 'users' table. This service only reads it.
type UsersTable struct {
	Table             string
	ID                string
	FirstName         string
	LastName          string
	Email             string
	ProfilePictureURL string
}

// Users is the schema definition for users
var Users = UsersTable{
	Table:             "users",
	ID:                "id",
	FirstName:         "first_name",
	LastName:          "last_name",
	Email:             "email",
	ProfilePictureURL: "profile_picture_url",
}
