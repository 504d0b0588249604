package id

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

type Generator struct{}

func New() *Generator {
	return &Generator{}
}

func (g *Generator) generate(prefix string) string {
	id, err := gonanoid.New(21)
	if err != nil {
		return prefix + "_fallback"
	}
	return prefix + "_" + id
}

func (g *Generator) SessionID() string {
	return g.generate("is")
}

func (g *Generator) MessageID() string {
	return g.generate("im")
}

func (g *Generator) TraceID() string {
	return g.generate("itr")
}
