package bracket

import (
	"strconv"
	"strings"

	"github.com/scoutkit/analysis/internal/models"
)

// Side colors. The root carries green because the finals winner has no
// further match to play a side in.
const (
	ColorRed   = "red"
	ColorBlue  = "blue"
	ColorGreen = "green"
)

// Placeholder name for a slot whose match has not been decided.
const Unresolved = "?"

// Quarterfinal leaf positions in bracket order: 1v8 and 4v5 feed one
// semifinal, 2v7 and 3v6 the other.
var seedOrder = [8]int{1, 8, 4, 5, 2, 7, 3, 6}

// Node is one slot in the elimination tree. Internal nodes name a match
// (their two children are its participants) and hold the winner once
// advanced; leaves are the eight alliances.
type Node struct {
	Name     string
	Round    models.Round
	Number   int
	Color    string
	Alliance int
	Children []*Node

	parent *Node
}

// Resolved reports whether a winner (or, for a leaf, an alliance) occupies
// this slot.
func (n *Node) Resolved() bool { return n.Name != Unresolved }

func (n *Node) Leaf() bool { return len(n.Children) == 0 }

func (n *Node) childByColor(color string) *Node {
	for _, child := range n.Children {
		if child.Color == color {
			return child
		}
	}
	return nil
}

// Tree is a fixed-shape eight-alliance single-elimination bracket.
type Tree struct {
	Root      *Node
	alliances models.AllianceSet
}

// Build lays out the bracket for an alliance selection. Every internal
// slot starts unresolved; each leaf displays its alliance's seed and team
// list.
func Build(alliances models.AllianceSet) *Tree {
	root := &Node{Name: Unresolved, Round: models.RoundFinals, Number: 1, Color: ColorGreen}

	attach(root, &Node{Name: Unresolved, Round: models.RoundSemifinals, Number: 1, Color: ColorRed})
	attach(root, &Node{Name: Unresolved, Round: models.RoundSemifinals, Number: 2, Color: ColorBlue})

	for x := 1; x <= 4; x++ {
		finalsColor := ColorBlue
		if x <= 2 {
			finalsColor = ColorRed
		}
		color := ColorRed
		if x%2 == 0 {
			color = ColorBlue
		}
		attach(root.childByColor(finalsColor), &Node{
			Name:   Unresolved,
			Round:  models.RoundQuarterfinals,
			Number: x,
			Color:  color,
		})
	}

	for i, seed := range seedOrder {
		finalsColor := ColorBlue
		if i <= 3 {
			finalsColor = ColorRed
		}
		semisColor := ColorBlue
		if seed == 1 || seed == 8 || seed == 2 || seed == 7 {
			semisColor = ColorRed
		}
		color := ColorBlue
		if seed <= 4 {
			color = ColorRed
		}
		parent := root.childByColor(finalsColor).childByColor(semisColor)
		attach(parent, &Node{
			Name:     allianceDisplay(seed, alliances[seed]),
			Number:   seed,
			Color:    color,
			Alliance: seed,
		})
	}

	return &Tree{Root: root, alliances: alliances}
}

func attach(parent, child *Node) {
	child.parent = parent
	parent.Children = append(parent.Children, child)
}

func allianceDisplay(seed int, alliance models.Alliance) string {
	teams := presentTeams(alliance)
	if len(teams) == 0 {
		return strconv.Itoa(seed)
	}
	return strconv.Itoa(seed) + ". " + strings.Join(teams, ", ")
}

func presentTeams(alliance models.Alliance) []string {
	var teams []string
	for _, team := range alliance {
		if team != "" {
			teams = append(teams, team)
		}
	}
	return teams
}

// AdvanceWinner promotes a slot's occupant into its parent, resolving the
// parent's match. Re-advancing the same child is a no-op; advancing the
// sibling later overrides the earlier result, since outcomes can change
// before finals lock. The promotion moves exactly one level.
func (t *Tree) AdvanceWinner(child *Node) bool {
	if child == nil || child.parent == nil {
		return false
	}
	child.parent.Name = child.Name
	child.parent.Alliance = child.Alliance
	return true
}

// Find returns the internal node for a match, or nil.
func (t *Tree) Find(round models.Round, number int) *Node {
	var found *Node
	t.walk(func(n *Node) {
		if !n.Leaf() && n.Round == round && n.Number == number {
			found = n
		}
	})
	return found
}

// Matches recomputes the playable match list from scratch: every internal
// node whose children are both resolved yields a match, red alliance teams
// first in seed order, then blue.
func (t *Tree) Matches() map[models.MatchID][]string {
	matches := make(map[models.MatchID][]string)
	t.walk(func(n *Node) {
		if n.Leaf() || !n.Children[0].Resolved() || !n.Children[1].Resolved() {
			return
		}
		var red, blue []string
		for _, child := range n.Children {
			if child.Alliance == 0 {
				continue
			}
			teams := presentTeams(t.alliances[child.Alliance])
			if child.Color == ColorRed {
				red = teams
			} else {
				blue = teams
			}
		}
		if len(red) == 0 && len(blue) == 0 {
			return
		}
		matches[models.MatchID{Round: n.Round, Number: n.Number}] = append(red, blue...)
	})
	return matches
}

func (t *Tree) walk(visit func(*Node)) {
	var descend func(*Node)
	descend = func(n *Node) {
		visit(n)
		for _, child := range n.Children {
			descend(child)
		}
	}
	descend(t.Root)
}
