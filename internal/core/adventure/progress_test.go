// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package adventure_test

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/sunday/internal/core/activity"
	"github.com/taibuivan/sunday/internal/core/adventure"
	"github.com/taibuivan/sunday/internal/platform/apperr"
)

var (
	entryColumns = []string{
		"id", "adventure_name", "adventure_type", "nearest_city", "public", "date_created",
		"user_id", "display_name", "email", "profile_picture_url",
	}
	listedUserColumns      = []string{"user_id", "display_name", "email", "profile_picture_url"}
	listedAdventureColumns = []string{"id", "adventure_name", "adventure_type", "nearest_city", "public", "date_created"}
)

const (
	addCompleted = `INSERT INTO completed_adventures \(id, user_id, adventure_id, public\) ` +
		`SELECT \$1::uuid, \$2::uuid, a.id, \$3::boolean FROM adventures a WHERE a.id = \$4 ` +
		`ON CONFLICT \(user_id, adventure_id\) DO UPDATE SET public = EXCLUDED.public`
	removeTodo = `DELETE FROM todo_adventures WHERE adventure_id = \$1 AND user_id = \$2`
)

func entryRow(public bool) *pgxmock.Rows {
	return pgxmock.NewRows(entryColumns).AddRow(
		"a-1", "Rose Knob", "hike", "Incline Village", public, createdAt,
		"u-1", "Ada Lovelace", "ada@example.com", "",
	)
}

func mark(public bool) adventure.Mark {
	return adventure.Mark{UserID: "u-1", AdventureID: "a-1", Public: &public}
}

// # Completion

/*
TestCompleteAdventure drops the to-do entry before recording the completion,
all in one transaction.
*/
func TestCompleteAdventure(t *testing.T) {
	f := newFixture(t)

	f.mock.ExpectBegin()
	f.mock.ExpectExec(removeTodo).WithArgs("a-1", "u-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	f.mock.ExpectExec(addCompleted).WithArgs(pgxmock.AnyArg(), "u-1", false, "a-1").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	f.mock.ExpectQuery(`FROM completed_adventures p INNER JOIN adventures a ON a.id = p.adventure_id ` +
		`INNER JOIN users u ON u.id = p.user_id WHERE p.user_id = \$1 AND p.adventure_id = \$2`).
		WithArgs("u-1", "a-1").
		WillReturnRows(entryRow(false))
	f.mock.ExpectCommit()

	entry, err := f.service.CompleteAdventure(context.Background(), mark(false))
	require.NoError(t, err)

	assert.Equal(t, adventure.ListCompleted, entry.List)
	assert.Equal(t, "Rose Knob", entry.Adventure.Name)
	assert.Equal(t, activity.Hike, entry.Adventure.AdventureType)
	assert.False(t, entry.Adventure.Public)
	assert.Equal(t, "Ada Lovelace", entry.User.DisplayName)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCompleteAdventure_MissingAdventure(t *testing.T) {
	f := newFixture(t)

	f.mock.ExpectBegin()
	f.mock.ExpectExec(removeTodo).WithArgs("a-1", "u-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	f.mock.ExpectExec(addCompleted).WithArgs(pgxmock.AnyArg(), "u-1", true, "a-1").
		WillReturnResult(pgxmock.NewResult("INSERT", 0))
	f.mock.ExpectRollback()

	_, err := f.service.CompleteAdventure(context.Background(), mark(true))
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCompleteAdventure_RequiresVisibility(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.CompleteAdventure(context.Background(), adventure.Mark{UserID: "u-1", AdventureID: "a-1"})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeValidation))
	assert.Contains(t, err.Error(), "public")
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

// # To-do

func TestAddAdventureTodo(t *testing.T) {
	f := newFixture(t)

	f.mock.ExpectBegin()
	f.mock.ExpectExec(`INSERT INTO todo_adventures .* ON CONFLICT \(user_id, adventure_id\) DO UPDATE`).
		WithArgs(pgxmock.AnyArg(), "u-1", true, "a-1").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	f.mock.ExpectQuery(`FROM todo_adventures p INNER JOIN adventures a`).WithArgs("u-1", "a-1").
		WillReturnRows(entryRow(true))
	f.mock.ExpectCommit()

	entry, err := f.service.AddAdventureTodo(context.Background(), mark(true))
	require.NoError(t, err)
	assert.Equal(t, adventure.ListTodo, entry.List)
	assert.Equal(t, "a-1", entry.Adventure.AdventureID)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestRemoveAdventureTodo(t *testing.T) {
	f := newFixture(t)

	f.mock.ExpectExec(removeTodo).WithArgs("a-1", "u-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	require.NoError(t, f.service.RemoveAdventureTodo(context.Background(), "u-1", "a-1"))

	f.mock.ExpectExec(removeTodo).WithArgs("a-1", "u-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	err := f.service.RemoveAdventureTodo(context.Background(), "u-1", "a-1")
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))

	assert.NoError(t, f.mock.ExpectationsWereMet())
}

// # Listings

/*
TestGetListedUsers reads only public entries, oldest first.
*/
func TestGetListedUsers(t *testing.T) {
	f := newFixture(t)

	f.mock.ExpectQuery(`FROM completed_adventures p INNER JOIN users u ON u.id = p.user_id ` +
		`WHERE p.adventure_id = \$1 AND p.public = TRUE ORDER BY p.date_created ASC, p.id ASC`).
		WithArgs("a-1").
		WillReturnRows(pgxmock.NewRows(listedUserColumns).
			AddRow("u-1", "Ada Lovelace", "ada@example.com", "").
			AddRow("u-2", "Grace Hopper", "grace@example.com", "https://cdn.sunday.app/images/g.jpg"))

	users, err := f.service.GetListedUsers(context.Background(), adventure.ListCompleted, "a-1")
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "u-1", users[0].UserID)
	assert.Equal(t, "Grace Hopper", users[1].DisplayName)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestGetListedUsers_UnknownList(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.GetListedUsers(context.Background(), adventure.List("wishlist"), "a-1")
	assert.True(t, apperr.Is(err, apperr.CodeValidation))
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

/*
TestGetListedAdventures shows private entries to the owner only.
*/
func TestGetListedAdventures(t *testing.T) {
	f := newFixture(t)

	f.mock.ExpectQuery(`FROM todo_adventures p INNER JOIN adventures a ON a.id = p.adventure_id ` +
		`WHERE p.user_id = \$1 ORDER BY p.date_created DESC, p.id ASC`).
		WithArgs("u-1").
		WillReturnRows(pgxmock.NewRows(listedAdventureColumns).
			AddRow("a-1", "Rose Knob", "hike", "Incline Village", false, createdAt))

	own, err := f.service.GetListedAdventures(context.Background(), adventure.ListTodo, "u-1", "u-1")
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.False(t, own[0].Public)

	f.mock.ExpectQuery(`FROM todo_adventures p INNER JOIN adventures a ON a.id = p.adventure_id ` +
		`WHERE p.user_id = \$1 AND p.public = TRUE ORDER BY`).
		WithArgs("u-1").
		WillReturnRows(pgxmock.NewRows(listedAdventureColumns))

	shared, err := f.service.GetListedAdventures(context.Background(), adventure.ListTodo, "u-1", "u-2")
	require.NoError(t, err)
	assert.Empty(t, shared)

	_, err = f.service.GetListedAdventures(context.Background(), adventure.ListTodo, "", "")
	assert.True(t, apperr.Is(err, apperr.CodeValidation))

	assert.NoError(t, f.mock.ExpectationsWereMet())
}

// # Pictures

func TestAddAdventurePicture(t *testing.T) {
	f := newFixture(t)

	f.mock.ExpectExec(`INSERT INTO adventure_pictures \(id, adventure_id, creator_id, url\) ` +
		`SELECT \$1::uuid, a.id, \$2::uuid, \$3 FROM adventures a WHERE a.id = \$4`).
		WithArgs(pgxmock.AnyArg(), "u-1", "https://cdn.sunday.app/images/rose.jpg", "a-1").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	picture, err := f.service.AddAdventurePicture(context.Background(), adventure.Picture{
		AdventureID: "a-1",
		CreatorID:   "u-1",
		URL:         "https://cdn.sunday.app/images/rose.jpg",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, picture.ID)
	assert.Equal(t, "https://cdn.sunday.app/images/thumbs/rose.jpg", picture.ThumbnailURL)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestAddAdventurePicture_Rejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.AddAdventurePicture(context.Background(), adventure.Picture{
		AdventureID: "a-1",
		CreatorID:   "u-1",
		URL:         "https://cdn.sunday.app/images/thumbs/rose.jpg",
	})
	assert.True(t, apperr.Is(err, apperr.CodeValidation))

	f.mock.ExpectExec(`INSERT INTO adventure_pictures`).
		WithArgs(pgxmock.AnyArg(), "u-1", "images/rose.jpg", "a-9").
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	_, err = f.service.AddAdventurePicture(context.Background(), adventure.Picture{
		AdventureID: "a-9",
		CreatorID:   "u-1",
		URL:         "images/rose.jpg",
	})
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
	assert.NoError(t, f.mock.ExpectationsWereMet())
}
