// Package service orchestrates one chat request end to end: session lookup,
// prompt construction, generator invocation, intent dispatch, and reply
// assembly.
package service

import (
	"github.com/dbchat-dev/dbchat/config"
	"github.com/dbchat-dev/dbchat/dbquery"
	"github.com/dbchat-dev/dbchat/llm"
	"github.com/dbchat-dev/dbchat/protocol"
	"github.com/dbchat-dev/dbchat/session"
)

type Service struct {
	sessions  *session.Store
	codec     *protocol.Codec
	generator llm.Generator
	queries   dbquery.Runner
	config    *config.Config
}

func New(sessions *session.Store, codec *protocol.Codec, generator llm.Generator, queries dbquery.Runner, cfg *config.Config) *Service {
	return &Service{
		sessions:  sessions,
		codec:     codec,
		generator: generator,
		queries:   queries,
		config:    cfg,
	}
}

// Sessions exposes the session store for the read-side HTTP handlers.
func (s *Service) Sessions() *session.Store {
	return s.sessions
}
