// Package command parses operator input lines into typed commands.
package command

// Command is one parsed operator instruction.
type Command interface {
	Name() string
}

// ListOptions are the shared options of the listing commands.
type ListOptions struct {
	Category string // category name, resolved through config
	Tag      string // promotion tag name, resolved through config
	Page     int
	Filter   string // record filter expression, may be empty
}

// List shows a listing page.
type List struct {
	ListOptions
}

func (List) Name() string { return "list" }

// Search shows a listing page narrowed to the given terms.
type Search struct {
	ListOptions
	Terms []string
}

func (Search) Name() string { return "search" }

// Download fetches a torrent by id and registers it with the torrent
// client. At most one of Location and Path is set.
type Download struct {
	ID       int
	Location string // named download location from config
	Path     string // custom absolute destination path
}

func (Download) Name() string { return "download" }

// ListTorrents shows the torrent client's active torrents.
type ListTorrents struct{}

func (ListTorrents) Name() string { return "list-torrents" }

// RemoveTorrent removes a torrent from the torrent client.
type RemoveTorrent struct {
	ID int
}

func (RemoveTorrent) Name() string { return "remove-torrent" }

// Refresh forces a fresh login.
type Refresh struct{}

func (Refresh) Name() string { return "refresh" }

// Help prints usage.
type Help struct{}

func (Help) Name() string { return "help" }

// Exit ends the command loop.
type Exit struct{}

func (Exit) Name() string { return "exit" }

// Invalid is input whose verb was not recognized.
type Invalid struct {
	Input string
}

func (Invalid) Name() string { return "invalid" }
