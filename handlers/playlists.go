package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"segue/services"
	"segue/types"
	"segue/websocket"
)

// PlaylistHandler handles smart playlist generation, merging and folder
// management endpoints
type PlaylistHandler struct {
	store     services.LibraryStore
	smartlist services.SmartlistService
	playlists services.PlaylistService
	hub       websocket.Hub
}

// NewPlaylistHandler creates a new playlist handler
func NewPlaylistHandler(store services.LibraryStore, smartlist services.SmartlistService, playlists services.PlaylistService, hub websocket.Hub) *PlaylistHandler {
	return &PlaylistHandler{
		store:     store,
		smartlist: smartlist,
		playlists: playlists,
		hub:       hub,
	}
}

// GenerateV1 builds a playlist from query parameters. Kept for clients of
// the original endpoint; GenerateV2 is the full-featured version.
func (h *PlaylistHandler) GenerateV1(c *gin.Context) {
	id := c.Param("id")

	target := 60
	if s := c.Query("target_minutes"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "target_minutes must be an integer"})
			return
		}
		target = v
	}
	if target < 1 || target > 1440 {
		respondError(c, types.Validationf("target_minutes must be between 1 and 1440"))
		return
	}
	keyword := c.Query("keyword")

	var result services.GeneratedPlaylist
	var event types.LibraryEvent
	err := h.store.Update(id, func(lib *types.Library) error {
		generated, err := h.smartlist.GenerateV1(lib, target, keyword)
		if err != nil {
			return err
		}
		result = generated
		event = types.NewLibraryEvent(lib, types.EventPlaylistGenerated, generated.Name)
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.hub.BroadcastEvent(event)
	c.JSON(http.StatusOK, result)
}

// GenerateV2 builds a playlist from the full filter and sort configuration.
// An empty body uses the defaults throughout.
func (h *PlaylistHandler) GenerateV2(c *gin.Context) {
	id := c.Param("id")

	var req types.SmartPlaylistV2Request
	if !bindOptionalJSON(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, err)
		return
	}

	var result services.GeneratedPlaylist
	var event types.LibraryEvent
	err := h.store.Update(id, func(lib *types.Library) error {
		generated, err := h.smartlist.GenerateV2(lib, req)
		if err != nil {
			return err
		}
		result = generated
		event = types.NewLibraryEvent(lib, types.EventPlaylistGenerated, generated.Name)
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.hub.BroadcastEvent(event)
	c.JSON(http.StatusOK, result)
}

// Merge concatenates existing playlists into a new one.
func (h *PlaylistHandler) Merge(c *gin.Context) {
	id := c.Param("id")

	var req types.MergePlaylistsRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)

	var result services.MergedPlaylist
	var event types.LibraryEvent
	err := h.store.Update(id, func(lib *types.Library) error {
		merged, err := h.playlists.Merge(lib, req)
		if err != nil {
			return err
		}
		result = merged
		event = types.NewLibraryEvent(lib, types.EventPlaylistsMerged, merged.Name)
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.hub.BroadcastEvent(event)
	c.JSON(http.StatusOK, result)
}

// CreateFolder adds a playlist folder, optionally under a parent.
func (h *PlaylistHandler) CreateFolder(c *gin.Context) {
	id := c.Param("id")

	var req types.FolderCreateRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, err)
		return
	}

	err := h.store.Update(id, func(lib *types.Library) error {
		folder, err := h.playlists.CreateFolder(lib, strings.TrimSpace(req.Name), req.ParentID)
		if err != nil {
			return err
		}
		c.JSON(http.StatusOK, gin.H{
			"folder_id": folder.ID,
			"name":      folder.Name,
			"parent_id": folder.ParentID,
		})
		return nil
	})
	if err != nil {
		respondError(c, err)
	}
}

// FolderTree returns the nested folder hierarchy plus root-level playlists.
func (h *PlaylistHandler) FolderTree(c *gin.Context) {
	id := c.Param("id")
	err := h.store.Read(id, func(lib *types.Library) error {
		c.JSON(http.StatusOK, h.playlists.FolderTree(lib))
		return nil
	})
	if err != nil {
		respondError(c, err)
	}
}

// MoveFolder re-parents a folder; an absent new_parent_id moves it to the
// root.
func (h *PlaylistHandler) MoveFolder(c *gin.Context) {
	id := c.Param("id")
	folderID := c.Param("folderId")

	var req types.FolderMoveRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	err := h.store.Update(id, func(lib *types.Library) error {
		return h.playlists.MoveFolder(lib, folderID, req.NewParentID)
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"new_parent_id": req.NewParentID})
}

// DeleteFolder removes a folder, re-parenting its children and returning
// its playlists to the root.
func (h *PlaylistHandler) DeleteFolder(c *gin.Context) {
	id := c.Param("id")
	folderID := c.Param("folderId")

	err := h.store.Update(id, func(lib *types.Library) error {
		return h.playlists.DeleteFolder(lib, folderID)
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// MovePlaylist files a playlist under a folder; an absent folder_id moves it
// back to the root.
func (h *PlaylistHandler) MovePlaylist(c *gin.Context) {
	id := c.Param("id")
	playlistID := c.Param("playlistId")

	var req types.PlaylistMoveRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	err := h.store.Update(id, func(lib *types.Library) error {
		return h.playlists.MovePlaylist(lib, playlistID, req.FolderID)
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"folder_id": req.FolderID})
}
