package webdav

import (
	"context"
	"sort"
	"strings"
)

const maxFolderDepth = 6

// Walk recursively lists result documents under folder. Entries come back in
// a deterministic order (depth-first, path-sorted) so downstream processing
// is reproducible run to run.
func (c *Client) Walk(ctx context.Context, folder string) ([]Entry, error) {
	start := strings.Trim(folder, "/")
	stack := []string{start}
	seen := map[string]bool{}
	var docs []Entry

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[current] {
			continue
		}
		seen[current] = true

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		entries, err := c.List(ctx, current)
		if err != nil {
			return nil, err
		}

		for _, e := range entries {
			// PROPFIND Depth:1 echoes the folder itself.
			if strings.Trim(e.Path, "/") == current {
				continue
			}
			if e.IsDir {
				stack = append(stack, strings.Trim(e.Path, "/"))
				continue
			}
			if e.IsResultDocument() {
				docs = append(docs, e)
			}
		}
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
	return docs, nil
}

// ListFolders returns the immediate sub-folders of base, share-relative,
// without trailing slashes.
func (c *Client) ListFolders(ctx context.Context, base string) ([]string, error) {
	base = strings.Trim(base, "/")
	entries, err := c.List(ctx, base)
	if err != nil {
		return nil, err
	}

	set := map[string]bool{}
	for _, e := range entries {
		p := strings.Trim(e.Path, "/")
		if !e.IsDir || p == base {
			continue
		}
		set[p] = true
	}

	folders := make([]string, 0, len(set))
	for p := range set {
		folders = append(folders, p)
	}
	sort.Strings(folders)
	return folders, nil
}

// ListFoldersRecursive lists folders under base up to maxDepth levels deep.
// Folders that fail to list are skipped rather than failing the whole scan.
func (c *Client) ListFoldersRecursive(ctx context.Context, base string, maxDepth int) ([]string, error) {
	if maxDepth <= 0 {
		maxDepth = maxFolderDepth
	}

	type frame struct {
		path  string
		depth int
	}

	base = strings.Trim(base, "/")
	out := map[string]bool{}
	frontier := []frame{{base, 0}}

	for len(frontier) > 0 {
		cur := frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]
		if cur.depth >= maxDepth {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		subs, err := c.ListFolders(ctx, cur.path)
		if err != nil {
			continue
		}
		for _, s := range subs {
			if !out[s] {
				out[s] = true
				frontier = append(frontier, frame{s, cur.depth + 1})
			}
		}
	}

	folders := make([]string, 0, len(out))
	for p := range out {
		folders = append(folders, p)
	}
	sort.Strings(folders)
	return folders, nil
}
