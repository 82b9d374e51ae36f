package cli

import (
	"github.com/hbollon/go-edlib"
)

// suggest picks the closest candidate to typed by Levenshtein distance,
// for "did you mean X?" hints on an unknown option or subcommand. It
// returns "" if candidates is empty or nothing is close enough to be
// worth suggesting.
func suggest(typed string, candidates []string) string {
	best := ""
	bestDist := -1
	for _, c := range candidates {
		d := edlib.LevenshteinDistance(typed, c)
		if bestDist == -1 || d < bestDist {
			bestDist = d
			best = c
		}
	}
	if best == "" || bestDist > maxSuggestDistance(typed, best) {
		return ""
	}
	return best
}

// maxSuggestDistance bounds how many edits away a suggestion may still
// be considered relevant; short names tolerate fewer typos than long
// ones.
func maxSuggestDistance(typed, candidate string) int {
	n := len(typed)
	if len(candidate) > n {
		n = len(candidate)
	}
	switch {
	case n <= 4:
		return 1
	case n <= 8:
		return 2
	default:
		return 3
	}
}

// longOptionNames collects every "--name" known to node, including the
// root's global options when node looks up its parent.
func longOptionNames(node, root *Node) []string {
	names := make([]string, 0, len(node.Options))
	for _, o := range node.Options {
		names = append(names, o.Name)
	}
	if node.hasParent() && root != node {
		for _, o := range root.Options {
			names = append(names, o.Name)
		}
	}
	return names
}

// subcommandNames collects every subcommand name known to node.
func subcommandNames(node *Node) []string {
	names := make([]string, 0, len(node.Subcommands))
	for _, s := range node.Subcommands {
		names = append(names, s.Name)
	}
	return names
}
