package listen

import "fmt"

// userSubquery is the selection set of a user profile.
const userSubquery = `
uuid
username
displayName
bio
favorites {
	count
}
uploads {
	count
}
requests {
	count
}
`

// songSubquery is the selection set shared by every query returning songs.
const songSubquery = `
id
title
titleRomaji
sources {
	id
	name
	nameRomaji
	image
}
artists {
	id
	name
	nameRomaji
	image
	characters {
		id
		name
		nameRomaji
	}
}
characters {
	id
	name
	nameRomaji
}
albums {
	id
	name
	nameRomaji
	image
}
uploader {
	uuid
	displayName
	username
}
duration
played
snippet
lastPlayed
`

const genericSubquery = `
id
name
nameRomaji
`

const linksSubquery = `
links {
	name
	url
}
`

var feedSubquery = fmt.Sprintf(`
systemFeed(offset: $systemOffset, count: $systemCount) {
	type
	createdAt
	song {
		%s
	}
}
`, songSubquery)

var loginMutation = fmt.Sprintf(`
mutation login($username: String!, $password: String!, $systemOffset: Int!, $systemCount: Int!) {
	login(username: $username, password: $password) {
		user {
			%s
			%s
		}
		token
	}
}
`, userSubquery, feedSubquery)

var userQuery = fmt.Sprintf(`
query user($username: String!, $systemOffset: Int!, $systemCount: Int!) {
	user(username: $username) {
		%s
		%s
	}
}
`, userSubquery, feedSubquery)

var albumQuery = fmt.Sprintf(`
query album($id: Int!) {
	album(id: $id) {
		%[1]s
		image
		songs {
			%[2]s
		}
		artists {
			%[1]s
			image
			characters {
				%[1]s
			}
		}
		%[3]s
	}
}
`, genericSubquery, songSubquery, linksSubquery)

var artistQuery = fmt.Sprintf(`
query artist($id: Int!) {
	artist(id: $id) {
		%[1]s
		image
		characters {
			%[1]s
		}
		%[3]s
		albums {
			%[1]s
			image
			songs {
				%[2]s
			}
		}
		songsWithoutAlbum {
			%[2]s
		}
	}
}
`, genericSubquery, songSubquery, linksSubquery)

var characterQuery = fmt.Sprintf(`
query character($id: Int!) {
	character(id: $id) {
		%s
	}
}
`, genericSubquery)

var songQuery = fmt.Sprintf(`
query song($id: Int!) {
	song(id: $id) {
		%s
	}
}
`, songSubquery)

var songsQuery = fmt.Sprintf(`
query songs($offset: Int!, $count: Int!) {
	songs(offset: $offset, count: $count) {
		songs {
			%s
		}
		count
	}
}
`, songSubquery)

var sourceQuery = fmt.Sprintf(`
query source($id: Int!) {
	source(id: $id) {
		%[1]s
		image
		description
		%[3]s
		songs {
			%[2]s
		}
		songsWithoutAlbum {
			%[2]s
		}
	}
}
`, genericSubquery, songSubquery, linksSubquery)

const checkFavoriteQuery = `
query checkFavorite($songs: [Int!]!) {
	checkFavorite(songs: $songs)
}
`

const favoriteSongMutation = `
mutation favoriteSong($id: Int!) {
	favoriteSong(id: $id) {
		id
	}
}
`

var playStatisticsQuery = fmt.Sprintf(`
query playStatistics($count: Int!, $offset: Int) {
	playStatistics(count: $count, offset: $offset) {
		songs {
			createdAt
			song {
				%s
			}
			requester {
				uuid
				username
				displayName
			}
		}
	}
}
`, songSubquery)

var searchQuery = fmt.Sprintf(`
query search($term: ID!, $favoritesOnly: Boolean) {
	search(query: $term, favoritesOnly: $favoritesOnly) {
		... on Song {
			%s
		}
	}
}
`, songSubquery)

var requestSongMutation = fmt.Sprintf(`
mutation requestSong($id: Int!) {
	requestSong(id: $id) {
		%s
	}
}
`, songSubquery)

var requestRandomFavoriteMutation = fmt.Sprintf(`
mutation requestRandomFavorite {
	requestRandomFavorite {
		%s
	}
}
`, songSubquery)
