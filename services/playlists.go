package services

import (
	"segue/types"
)

// MergedPlaylist describes the playlist produced by a merge.
type MergedPlaylist struct {
	PlaylistID string `json:"playlist_id"`
	Name       string `json:"name"`
	TrackCount int    `json:"track_count"`
}

// FolderTree is the nested folder hierarchy plus the playlists that sit at
// the root, outside any folder.
type FolderTree struct {
	Folders   []*types.FolderNode     `json:"folders"`
	Playlists []types.PlaylistSummary `json:"playlists"`
}

// PlaylistService interface defines playlist merging and folder management
type PlaylistService interface {
	Merge(lib *types.Library, req types.MergePlaylistsRequest) (MergedPlaylist, error)
	CreateFolder(lib *types.Library, name string, parentID *string) (*types.Folder, error)
	MoveFolder(lib *types.Library, folderID string, newParentID *string) error
	DeleteFolder(lib *types.Library, folderID string) error
	MovePlaylist(lib *types.Library, playlistID string, folderID *string) error
	FolderTree(lib *types.Library) FolderTree
}

// playlistService implements the PlaylistService interface
type playlistService struct{}

// NewPlaylistService creates a new playlist service
func NewPlaylistService() PlaylistService {
	return &playlistService{}
}

// Merge concatenates the source playlists in the order given. With
// deduplication on, only the first occurrence of each track survives.
// Repeats inside one source count as occurrences too.
func (s *playlistService) Merge(lib *types.Library, req types.MergePlaylistsRequest) (MergedPlaylist, error) {
	trackIDs := []string{}
	for _, pid := range req.SourcePlaylistIDs {
		pl, ok := lib.PlaylistByID(pid)
		if !ok {
			return MergedPlaylist{}, &types.NotFoundError{Kind: "playlist", ID: pid}
		}
		trackIDs = append(trackIDs, pl.TrackIDs...)
	}

	if req.Dedupe() {
		seen := map[string]bool{}
		deduped := trackIDs[:0]
		for _, tid := range trackIDs {
			if seen[tid] {
				continue
			}
			seen[tid] = true
			deduped = append(deduped, tid)
		}
		trackIDs = deduped
	}

	pl, err := lib.AddPlaylist(req.Name, trackIDs)
	if err != nil {
		return MergedPlaylist{}, err
	}
	return MergedPlaylist{
		PlaylistID: pl.ID,
		Name:       pl.Name,
		TrackCount: len(pl.TrackIDs),
	}, nil
}

// CreateFolder adds a folder, optionally under an existing parent.
func (s *playlistService) CreateFolder(lib *types.Library, name string, parentID *string) (*types.Folder, error) {
	if parentID != nil {
		if _, ok := lib.FolderByID(*parentID); !ok {
			return nil, &types.NotFoundError{Kind: "folder", ID: *parentID}
		}
	}
	return lib.AddFolder(name, parentID), nil
}

// MoveFolder reparents a folder. A nil newParentID moves it to the root.
// Moving a folder into itself or into its own subtree is rejected.
func (s *playlistService) MoveFolder(lib *types.Library, folderID string, newParentID *string) error {
	folder, ok := lib.FolderByID(folderID)
	if !ok {
		return &types.NotFoundError{Kind: "folder", ID: folderID}
	}

	if newParentID != nil {
		if _, ok := lib.FolderByID(*newParentID); !ok {
			return &types.NotFoundError{Kind: "folder", ID: *newParentID}
		}
		if *newParentID == folderID {
			return types.Validationf("cannot move folder %q into itself", folder.Name)
		}
		if isDescendant(lib, *newParentID, folderID) {
			return types.Validationf("cannot move folder %q into its own subtree", folder.Name)
		}
	}

	folder.ParentID = newParentID
	return nil
}

// isDescendant reports whether candidate sits somewhere below ancestor in
// the folder tree. The visited set guards against pre-existing cycles.
func isDescendant(lib *types.Library, candidate, ancestor string) bool {
	visited := map[string]bool{}
	current := candidate
	for {
		if visited[current] {
			return false
		}
		visited[current] = true

		f, ok := lib.FolderByID(current)
		if !ok || f.ParentID == nil {
			return false
		}
		if *f.ParentID == ancestor {
			return true
		}
		current = *f.ParentID
	}
}

// DeleteFolder removes a folder. Child folders reattach to the deleted
// folder's parent and contained playlists drop back to the root.
func (s *playlistService) DeleteFolder(lib *types.Library, folderID string) error {
	folder, ok := lib.FolderByID(folderID)
	if !ok {
		return &types.NotFoundError{Kind: "folder", ID: folderID}
	}

	parent := folder.ParentID
	for _, f := range lib.Folders {
		if f.ParentID != nil && *f.ParentID == folderID {
			f.ParentID = parent
		}
	}
	for _, p := range lib.Playlists {
		if p.FolderID != nil && *p.FolderID == folderID {
			p.FolderID = nil
		}
	}

	lib.RemoveFolder(folderID)
	return nil
}

// MovePlaylist files a playlist under a folder, or back to the root when
// folderID is nil.
func (s *playlistService) MovePlaylist(lib *types.Library, playlistID string, folderID *string) error {
	pl, ok := lib.PlaylistByID(playlistID)
	if !ok {
		return &types.NotFoundError{Kind: "playlist", ID: playlistID}
	}
	if folderID != nil {
		if _, ok := lib.FolderByID(*folderID); !ok {
			return &types.NotFoundError{Kind: "folder", ID: *folderID}
		}
	}
	pl.FolderID = folderID
	return nil
}

// FolderTree builds the nested hierarchy. Folders and playlists keep their
// library insertion order, and anything pointing at a folder that no longer
// exists falls back to the root.
func (s *playlistService) FolderTree(lib *types.Library) FolderTree {
	nodes := make(map[string]*types.FolderNode, len(lib.Folders))
	for _, f := range lib.Folders {
		nodes[f.ID] = &types.FolderNode{
			ID:         f.ID,
			Name:       f.Name,
			ParentID:   f.ParentID,
			Subfolders: []*types.FolderNode{},
			Playlists:  []types.PlaylistSummary{},
		}
	}

	tree := FolderTree{
		Folders:   []*types.FolderNode{},
		Playlists: []types.PlaylistSummary{},
	}

	for _, f := range lib.Folders {
		node := nodes[f.ID]
		if f.ParentID != nil {
			if parent, ok := nodes[*f.ParentID]; ok {
				parent.Subfolders = append(parent.Subfolders, node)
				continue
			}
		}
		tree.Folders = append(tree.Folders, node)
	}

	for _, p := range lib.Playlists {
		summary := types.PlaylistSummary{
			ID:         p.ID,
			Name:       p.Name,
			TrackCount: len(p.TrackIDs),
		}
		if p.FolderID != nil {
			if node, ok := nodes[*p.FolderID]; ok {
				node.Playlists = append(node.Playlists, summary)
				continue
			}
		}
		tree.Playlists = append(tree.Playlists, summary)
	}

	return tree
}
