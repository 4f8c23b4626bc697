package history

import (
	"fmt"
	"time"

	"github.com/listentui/listentui/listen"
)

// Entry is a song heard on the radio.
type Entry struct {
	Song      *listen.Song `json:"song"`
	Requester string       `json:"requester,omitempty"`
	HeardAt   time.Time    `json:"heard_at"`
}

func (e *Entry) String() string {
	return fmt.Sprintf("%s · %s", e.Song, e.HeardAt.Local().Format(time.DateTime))
}

func newEntry(np listen.NowPlaying, at time.Time) *Entry {
	entry := &Entry{Song: np.Song, HeardAt: at}
	if np.Requester != nil {
		entry.Requester = np.Requester.DisplayName
	}
	return entry
}
