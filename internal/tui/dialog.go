package tui

import "context"

// dialogRequest is one folder-picking round trip. The backend blocks on the
// reply while the form shows its directory browser.
type dialogRequest struct {
	reply chan dialogReply
}

type dialogReply struct {
	path string
	ok   bool
}

// DialogBridge implements backend.FolderDialog by forwarding pick requests
// into the running form. The model listens for requests and answers each one
// through its reply channel.
type DialogBridge struct {
	requests chan dialogRequest
}

// NewDialogBridge builds a bridge for one program.
func NewDialogBridge() *DialogBridge {
	return &DialogBridge{requests: make(chan dialogRequest, 1)}
}

// PickFolder blocks until the form answers or ctx ends. ok is false when the
// user cancels.
func (b *DialogBridge) PickFolder(ctx context.Context) (string, bool, error) {
	req := dialogRequest{reply: make(chan dialogReply, 1)}

	select {
	case b.requests <- req:
	case <-ctx.Done():
		return "", false, ctx.Err()
	}

	select {
	case rep := <-req.reply:
		return rep.path, rep.ok, nil
	case <-ctx.Done():
		return "", false, ctx.Err()
	}
}
