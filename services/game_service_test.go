package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Dosada05/gameet/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gameUploads() GameUploads {
	return GameUploads{
		models.SlotBanner: pngUpload("banner.png"),
		models.SlotLogo:   pngUpload("logo.png"),
		models.SlotGrid:   pngUpload("grid.png"),
	}
}

func TestGameService_CreateApprovalFollowsRole(t *testing.T) {
	f := newFixture(t)
	admin := f.seedUser(t, "admin@example.com", true)
	user := f.seedUser(t, "user@example.com", false)
	svc := f.gameService()

	proposed, err := svc.Create(context.Background(), user, CreateGameInput{Name: "Doom"})
	require.NoError(t, err)
	assert.False(t, proposed.IsApproved)

	official, err := svc.Create(context.Background(), admin, CreateGameInput{Name: " Quake ", Platforms: []string{"PC"}})
	require.NoError(t, err)
	assert.True(t, official.IsApproved)
	assert.Equal(t, "Quake", official.Name)

	_, err = svc.Create(context.Background(), admin, CreateGameInput{Name: "  "})
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = svc.Create(context.Background(), admin, CreateGameInput{Name: "Ghost", BannerID: intPtr(9999)})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestGameService_CreateWithUploads(t *testing.T) {
	f := newFixture(t)
	admin := f.seedUser(t, "admin@example.com", true)

	game, err := f.gameService().CreateWithUploads(context.Background(), admin, CreateGameInput{Name: "Quake"}, gameUploads())
	require.NoError(t, err)

	require.NotNil(t, game.Banner)
	require.NotNil(t, game.Logo)
	require.NotNil(t, game.Grid)
	assert.True(t, strings.HasSuffix(game.Banner.URL, "-banner.png"))
	assert.Equal(t, 3, f.store.len())
}

func TestGameService_CreateWithUploadsRequiresEverySlot(t *testing.T) {
	f := newFixture(t)
	admin := f.seedUser(t, "admin@example.com", true)
	uploads := gameUploads()
	delete(uploads, models.SlotGrid)

	_, err := f.gameService().CreateWithUploads(context.Background(), admin, CreateGameInput{Name: "Quake"}, uploads)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "grid")
	assert.Equal(t, 0, f.store.len())
}

func TestGameService_CreateWithUploadsCleansUpOnFailure(t *testing.T) {
	f := newFixture(t)
	admin := f.seedUser(t, "admin@example.com", true)
	f.games.createHook = func(*models.Game) error { return errors.New("insert failed") }

	_, err := f.gameService().CreateWithUploads(context.Background(), admin, CreateGameInput{Name: "Quake"}, gameUploads())

	require.Error(t, err)
	assert.Empty(t, f.db.games)
	assert.Equal(t, 0, f.store.len())
}

func TestGameService_CreateWithUploadsRejectsNonImage(t *testing.T) {
	f := newFixture(t)
	admin := f.seedUser(t, "admin@example.com", true)
	uploads := gameUploads()
	uploads[models.SlotLogo] = &Upload{Filename: "logo.png", Size: 11, Body: strings.NewReader("plain text!")}

	_, err := f.gameService().CreateWithUploads(context.Background(), admin, CreateGameInput{Name: "Quake"}, uploads)

	assert.ErrorIs(t, err, ErrUnsupportedFileType)
	assert.Equal(t, 0, f.store.len(), "banner saved before the bad logo must be removed")
}

func TestGameService_AdminOnlyChanges(t *testing.T) {
	f := newFixture(t)
	user := f.seedUser(t, "user@example.com", false)
	gameID := f.seedGame(t, "Doom", false)
	svc := f.gameService()

	_, err := svc.Update(context.Background(), user, gameID, UpdateGameInput{IsApproved: boolPtr(true)})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.False(t, f.db.games[gameID].IsApproved)

	err = svc.Delete(context.Background(), user, gameID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.UpdatePhoto(context.Background(), user, gameID, models.SlotLogo, pngUpload("logo.png"))
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, 0, f.store.len())
}

func TestGameService_UpdateApprovesAndReleasesReplacedSlot(t *testing.T) {
	f := newFixture(t)
	admin := f.seedUser(t, "admin@example.com", true)
	oldBanner := f.seedPhoto(t, "1-a-old.png")
	newBanner := f.seedPhoto(t, "1-b-new.png")
	gameID := f.seedGame(t, "Doom", false)
	f.db.games[gameID].BannerID = intPtr(oldBanner)

	game, err := f.gameService().Update(context.Background(), admin, gameID, UpdateGameInput{
		IsApproved: boolPtr(true),
		BannerID:   intPtr(newBanner),
	})
	require.NoError(t, err)

	assert.True(t, game.IsApproved)
	require.NotNil(t, game.Banner)
	assert.Equal(t, newBanner, game.Banner.ID)
	assert.NotContains(t, f.db.photos, oldBanner)
	assert.False(t, f.store.has("1-a-old.png"))
}

func TestGameService_UpdatePhoto(t *testing.T) {
	f := newFixture(t)
	admin := f.seedUser(t, "admin@example.com", true)
	oldLogo := f.seedPhoto(t, "1-a-logo.png")
	gameID := f.seedGame(t, "Doom", true)
	f.db.games[gameID].LogoID = intPtr(oldLogo)
	svc := f.gameService()

	game, err := svc.UpdatePhoto(context.Background(), admin, gameID, models.SlotLogo, pngUpload("fresh.png"))
	require.NoError(t, err)

	require.NotNil(t, game.Logo)
	assert.NotEqual(t, oldLogo, game.Logo.ID)
	assert.NotContains(t, f.db.photos, oldLogo)
	assert.Equal(t, 1, f.store.len())

	_, err = svc.UpdatePhoto(context.Background(), admin, gameID, models.PhotoSlot("poster"), pngUpload("x.png"))
	assert.ErrorIs(t, err, ErrInvalidPhotoSlot)

	_, err = svc.UpdatePhoto(context.Background(), admin, 9999, models.SlotLogo, pngUpload("x.png"))
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestGameService_DeleteReleasesPhotos(t *testing.T) {
	f := newFixture(t)
	admin := f.seedUser(t, "admin@example.com", true)
	game, err := f.gameService().CreateWithUploads(context.Background(), admin, CreateGameInput{Name: "Quake"}, gameUploads())
	require.NoError(t, err)

	require.NoError(t, f.gameService().Delete(context.Background(), admin, game.ID))

	assert.Empty(t, f.db.games)
	assert.Empty(t, f.db.photos)
	assert.Equal(t, 0, f.store.len())
}

func TestGameService_ListFiltersApproval(t *testing.T) {
	f := newFixture(t)
	f.seedGame(t, "Doom", false)
	f.seedGame(t, "Quake", true)
	approved := true

	games, err := f.gameService().List(context.Background(), models.GameFilter{Approved: &approved})
	require.NoError(t, err)

	require.Len(t, games, 1)
	assert.Equal(t, "Quake", games[0].Name)
}

func TestTagService_AddToGameIsIdempotent(t *testing.T) {
	f := newFixture(t)
	admin := f.seedUser(t, "admin@example.com", true)
	gameID := f.seedGame(t, "Quake", true)
	svc := f.tagService()

	first, err := svc.AddToGame(context.Background(), admin, gameID, AddTagInput{Name: " FPS "})
	require.NoError(t, err)
	second, err := svc.AddToGame(context.Background(), admin, gameID, AddTagInput{Name: "FPS"})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	tags, err := svc.ListByGame(context.Background(), gameID)
	require.NoError(t, err)
	assert.Len(t, tags, 1)
	assert.Len(t, f.db.tags, 1)
}

func TestTagService_Errors(t *testing.T) {
	f := newFixture(t)
	admin := f.seedUser(t, "admin@example.com", true)
	user := f.seedUser(t, "user@example.com", false)
	gameID := f.seedGame(t, "Quake", true)
	svc := f.tagService()

	_, err := svc.AddToGame(context.Background(), user, gameID, AddTagInput{Name: "FPS"})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.AddToGame(context.Background(), admin, 9999, AddTagInput{Name: "FPS"})
	assert.ErrorIs(t, err, ErrGameNotFound)

	_, err = svc.AddToGame(context.Background(), admin, gameID, AddTagInput{Name: ""})
	assert.ErrorIs(t, err, ErrValidationFailed)

	err = svc.RemoveFromGame(context.Background(), admin, gameID, 9999)
	assert.ErrorIs(t, err, ErrTagNotFound)

	tag, err := svc.AddToGame(context.Background(), admin, gameID, AddTagInput{Name: "FPS"})
	require.NoError(t, err)
	require.NoError(t, svc.RemoveFromGame(context.Background(), admin, gameID, tag.ID))

	tags, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, tags, 1, "detaching keeps the tag itself")
}
