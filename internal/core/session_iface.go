package core

type SessionID string
