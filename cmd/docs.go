package cmd

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

// https://pmarsceill.github.io/just-the-docs/docs/navigation-structure/
const rootPage = `---
layout: default
title: %s
nav_order: %d
has_children: true
permalink: /
---
`

// child command without children
const childPage = `---
layout: default
title: %s
parent: %s
nav_order: %d
---
`

// child with children
const childParentPage = `---
layout: default
title: %s
parent: %s
nav_order: %d
has_children: true
---
`

// grandchildren
const grandchildPage = `---
layout: default
title: %s
parent: %s
grand_parent: %s
nav_order: %d
---
`

// meta is the position of a command's page in the docs navigation
type meta struct {
	depth       int
	title       string
	navOrder    int
	hasChildren bool
	parent      string
	grandParent string
}

// docsCmd writes Markdown docs for every command
var docsCmd = &cobra.Command{
	Use:    "docs [dir]",
	Short:  "Write Markdown documentation for every command",
	Args:   cobra.MaximumNArgs(1),
	Hidden: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "./docs"
		if len(args) > 0 {
			dir = args[0]
		}
		return makeDocs(dir)
	},
}

// makeDocs parses the commands and outputs Markdown documentation files
func makeDocs(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	metas := map[string]meta{}
	collectMeta(RootCmd, 0, 0, metas)

	prepend := func(filename string) string {
		m, ok := metas[docBase(filename)]
		if !ok {
			return ""
		}
		switch {
		case m.depth == 0:
			return fmt.Sprintf(rootPage, m.title, m.navOrder)
		case m.depth == 1 && m.hasChildren:
			return fmt.Sprintf(childParentPage, m.title, m.parent, m.navOrder)
		case m.depth == 1:
			return fmt.Sprintf(childPage, m.title, m.parent, m.navOrder)
		default:
			return fmt.Sprintf(grandchildPage, m.title, m.parent, m.grandParent, m.navOrder)
		}
	}

	return doc.GenMarkdownTreeCustom(RootCmd, dir, prepend, linkHandler)
}

// collectMeta maps each command's doc file name to its navigation meta
func collectMeta(c *cobra.Command, depth, order int, metas map[string]meta) {
	m := meta{depth: depth, title: c.Name(), navOrder: order}

	var children []*cobra.Command
	for _, child := range c.Commands() {
		if child.IsAvailableCommand() && !child.IsAdditionalHelpTopicCommand() {
			children = append(children, child)
		}
	}
	m.hasChildren = len(children) > 0

	if p := c.Parent(); p != nil {
		m.parent = p.Name()
		if gp := p.Parent(); gp != nil {
			m.grandParent = gp.Name()
		}
	}
	metas[strings.ReplaceAll(c.CommandPath(), " ", "_")] = m

	for i, child := range children {
		collectMeta(child, depth+1, i, metas)
	}
}

// docBase is the doc file name without its directory or extension
func docBase(filename string) string {
	name := filepath.Base(filename)
	return strings.TrimSuffix(name, path.Ext(name))
}

// linkHandler returns the URL to a documentation page
func linkHandler(filename string) string {
	base := docBase(filename)
	if base == RootCmd.Name() {
		return "/"
	}
	return base
}

func init() {
	RootCmd.AddCommand(docsCmd)
}
