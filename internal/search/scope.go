package search

import "strings"

// Scope modes restrict candidates to a file or folder before fusion and
// reranking run.
const (
	ScopeInFile   = "inFile"
	ScopeInFolder = "inFolder"
)

// Scope describes the caller's current location in the vault.
type Scope struct {
	Mode            string
	CurrentFilePath string
	FolderPath      string
}

// filterScope keeps only hits inside the scope. inFile keeps the exact
// current-file path; inFolder keeps the folder path itself and anything under
// it; every other mode keeps everything.
func filterScope(hits []Hit, scope Scope) []Hit {
	switch scope.Mode {
	case ScopeInFile:
		var kept []Hit
		for _, h := range hits {
			if h.Path == scope.CurrentFilePath {
				kept = append(kept, h)
			}
		}
		return kept
	case ScopeInFolder:
		prefix := scope.FolderPath + "/"
		var kept []Hit
		for _, h := range hits {
			if h.Path == scope.FolderPath || strings.HasPrefix(h.Path, prefix) {
				kept = append(kept, h)
			}
		}
		return kept
	default:
		return hits
	}
}
