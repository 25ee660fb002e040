package services

import (
	"sync"

	"golang.org/x/oauth2"
)

// refreshableTokenSource wraps a token source and reports each newly issued token.
type refreshableTokenSource struct {
	source   oauth2.TokenSource
	callback func(*oauth2.Token)

	mu   sync.Mutex
	last string
}

func (r *refreshableTokenSource) Token() (*oauth2.Token, error) {
	token, err := r.source.Token()
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	fresh := token.AccessToken != r.last
	r.last = token.AccessToken
	callback := r.callback
	r.mu.Unlock()

	if fresh && callback != nil {
		callback(token)
	}
	return token, nil
}

func (r *refreshableTokenSource) setCallback(callback func(*oauth2.Token)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.callback = callback
}
