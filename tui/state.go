package tui

type state int

const (
	loadingState state = iota
	playerState
	searchState
	resultsState
	historyState
	songDetailState
	errorState
)
