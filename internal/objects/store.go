package objects

import (
	"os"
	"path/filepath"

	"github.com/Ahmadalmuhidat/bittrack/core"
)

// StoreSnapshot copies the working-tree file at relPath into the snapshot of
// the given commit on the given branch, creating parent directories on the
// fly.
func StoreSnapshot(repo *core.Repository, branch, commitHash, relPath string) error {
	src := filepath.Join(repo.Root, relPath)
	dst := filepath.Join(repo.SnapshotDir(branch, commitHash), relPath)
	if err := core.CopyFile(src, dst); err != nil {
		return core.FSError("store-snapshot", err, "failed to snapshot %s", relPath)
	}
	return nil
}

// ReadBlob returns the stored contents of one file in a commit snapshot.
func ReadBlob(repo *core.Repository, branch, commitHash, relPath string) ([]byte, error) {
	blobPath := filepath.Join(repo.SnapshotDir(branch, commitHash), relPath)
	content, err := os.ReadFile(blobPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, core.NotFoundError("read-blob", "no blob for %s in commit %s", relPath, commitHash)
		}
		return nil, core.FSError("read-blob", err, "failed to read blob %s", relPath)
	}
	return content, nil
}

// BlobExists reports whether a commit snapshot holds the given path.
func BlobExists(repo *core.Repository, branch, commitHash, relPath string) bool {
	return core.FileExists(filepath.Join(repo.SnapshotDir(branch, commitHash), relPath))
}

// SnapshotFiles lists the relative paths of every blob in a commit snapshot.
// A missing snapshot directory yields an empty listing.
func SnapshotFiles(repo *core.Repository, branch, commitHash string) ([]string, error) {
	dir := repo.SnapshotDir(branch, commitHash)
	if !core.FileExists(dir) {
		return nil, nil
	}
	files, err := core.ListFiles(dir)
	if err != nil {
		return nil, core.FSError("snapshot-files", err, "failed to list snapshot %s", commitHash)
	}
	return files, nil
}

// FindSnapshotDir locates the object subtree holding a commit's blobs. The
// branch recorded in the commit is tried first; snapshots copied on branch
// creation are found by scanning the remaining branch directories.
func FindSnapshotDir(repo *core.Repository, commitHash string) (string, error) {
	if commitHash == "" {
		return "", core.NotFoundError("find-snapshot", "empty commit hash")
	}

	if commit, err := GetCommit(repo, commitHash); err == nil {
		dir := repo.SnapshotDir(commit.Branch, commitHash)
		if core.FileExists(dir) {
			return dir, nil
		}
	}

	entries, err := os.ReadDir(repo.ObjectsDir())
	if err != nil {
		return "", core.FSError("find-snapshot", err, "failed to read objects directory")
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := repo.SnapshotDir(entry.Name(), commitHash)
		if core.FileExists(dir) {
			return dir, nil
		}
	}
	return "", core.NotFoundError("find-snapshot", "no snapshot found for commit %s", commitHash)
}

// ReadBlobAnyBranch reads a blob from whichever branch subtree holds the
// commit's snapshot.
func ReadBlobAnyBranch(repo *core.Repository, commitHash, relPath string) ([]byte, error) {
	dir, err := FindSnapshotDir(repo, commitHash)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(filepath.Join(dir, relPath))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, core.NotFoundError("read-blob", "no blob for %s in commit %s", relPath, commitHash)
		}
		return nil, core.FSError("read-blob", err, "failed to read blob %s", relPath)
	}
	return content, nil
}

// CopySnapshotTree copies one commit's snapshot from srcBranch into
// dstBranch's subtree. Used when a branch is forked.
func CopySnapshotTree(repo *core.Repository, srcBranch, dstBranch, commitHash string) error {
	src := repo.SnapshotDir(srcBranch, commitHash)
	if !core.FileExists(src) {
		return core.NotFoundError("copy-snapshot", "no snapshot for commit %s on branch %s", commitHash, srcBranch)
	}
	dst := repo.SnapshotDir(dstBranch, commitHash)
	if err := core.CopyDir(src, dst); err != nil {
		return core.FSError("copy-snapshot", err, "failed to copy snapshot to branch %s", dstBranch)
	}
	return nil
}

// RemoveBranchObjects deletes a branch's entire object subtree.
func RemoveBranchObjects(repo *core.Repository, branch string) error {
	dir := filepath.Join(repo.ObjectsDir(), branch)
	if err := os.RemoveAll(dir); err != nil {
		return core.FSError("remove-branch-objects", err, "failed to remove objects for branch %s", branch)
	}
	return nil
}
