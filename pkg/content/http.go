package content

import (
	"context"
	"fmt"
	"net/url"

	"github.com/tilegrid/boardflow/pkg/board"
	"github.com/tilegrid/boardflow/pkg/errors"
	"github.com/tilegrid/boardflow/pkg/httputil"
)

// RemoteProvider pulls conversation turns from a content service over
// HTTP. The service owns the payloads; this provider only fetches the
// ordered snapshot the board needs.
//
// The API is pull-only, so Subscribe registers with a local fan-out and
// notifications fire when Refresh is called (for example after a poll
// or a push from the host).
type RemoteProvider struct {
	client *httputil.Client
	subs   *MemoryProvider
}

// NewRemoteProvider creates a provider backed by the given API client.
func NewRemoteProvider(client *httputil.Client) *RemoteProvider {
	return &RemoteProvider{client: client, subs: NewMemoryProvider()}
}

// Turns fetches GET /v1/conversations/{id}/turns.
func (r *RemoteProvider) Turns(ctx context.Context, conversation string) ([]board.Turn, error) {
	path := fmt.Sprintf("/v1/conversations/%s/turns", url.PathEscape(conversation))

	var turns []board.Turn
	if err := r.client.GetJSON(ctx, path, &turns); err != nil {
		return nil, errors.Wrap(errors.ErrCodeTransientIO, err, "fetch conversation %s", conversation)
	}
	sortTurns(turns)
	return turns, nil
}

// Subscribe registers for refresh notifications.
func (r *RemoteProvider) Subscribe(conversation string, fn func()) func() {
	return r.subs.Subscribe(conversation, fn)
}

// Refresh notifies subscribers that the conversation changed upstream.
func (r *RemoteProvider) Refresh(conversation string) {
	r.subs.notify(conversation)
}

var _ Provider = (*RemoteProvider)(nil)
