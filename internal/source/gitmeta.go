// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd002-snapshot R3 (git provenance).
package source

import (
	gogit "github.com/go-git/go-git/v5"
)

// readGitMeta records the HEAD commit hash and dirty flag on the
// snapshot when the root is a git repository. A snapshot outside git,
// or one whose history cannot be read, simply carries no provenance;
// analysis does not depend on it.
func readGitMeta(snap *Snapshot) {
	repo, err := gogit.PlainOpen(snap.Root)
	if err != nil {
		return
	}

	head, err := repo.Head()
	if err != nil {
		return
	}
	snap.Commit = head.Hash().String()

	wt, err := repo.Worktree()
	if err != nil {
		return
	}
	status, err := wt.Status()
	if err != nil {
		return
	}
	snap.Dirty = !status.IsClean()
}
