package tui

import "github.com/samvad-hq/gladstart-reader/internal/imageload"

type initialLoadedMsg struct {
	err error
}

type filtersAppliedMsg struct {
	err error
}

type moreLoadedMsg struct {
	fetched bool
}

type imageLoadedMsg struct {
	result imageload.Result
}

type openErrMsg struct {
	err error
}
