// Package dataset turns a tree of normalized, labeled images into a single
// array archive for the classifier.
package dataset

import (
	"datasetprep/scanner"
)

// LabelFunc extracts the class name of an image from its path
type LabelFunc func(path string) string

// LastFolder names the class after the image's immediate parent directory
func LastFolder(path string) string {
	return scanner.LastFolder(path)
}

// Vocabulary is an ordered list of class names plus the rule that maps a
// path to one of them. The index of a name is its integer label.
type Vocabulary struct {
	Names   []string
	Extract LabelFunc
	index   map[string]int
}

// NewVocabulary builds a vocabulary over names using LastFolder.
// Later repeats of a name keep the index of its first occurrence.
func NewVocabulary(names []string) *Vocabulary {
	return NewVocabularyWith(names, LastFolder)
}

// NewVocabularyWith builds a vocabulary with a custom extraction rule
func NewVocabularyWith(names []string, extract LabelFunc) *Vocabulary {
	if extract == nil {
		extract = LastFolder
	}
	v := &Vocabulary{
		Names:   append([]string(nil), names...),
		Extract: extract,
		index:   make(map[string]int, len(names)),
	}
	for i, name := range v.Names {
		if _, ok := v.index[name]; !ok {
			v.index[name] = i
		}
	}
	return v
}

// Label returns the integer label of path and the class name it was read
// as. ok is false when the name is not part of the vocabulary.
func (v *Vocabulary) Label(path string) (label int, name string, ok bool) {
	name = v.Extract(path)
	label, ok = v.index[name]
	return label, name, ok
}
