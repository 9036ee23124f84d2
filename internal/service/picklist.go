package service

import (
	"errors"
	"fmt"
)

const maxPicklists = 30

// ErrPicklistLimit is the capacity refusal for picklist creation; the
// operation is a no-op when it is returned.
var ErrPicklistLimit = errors.New("maximum of 30 picklists reached")

// Picklist is an ordered, titled list of team numbers built during alliance
// selection prep.
type Picklist struct {
	Title string
	Teams []string
}

// Picklists returns the session's picklists in creation order.
func (s *ScoutingService) Picklists() []*Picklist {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.picklists
}

// CreatePicklist opens a new empty picklist, refusing past the capacity
// limit.
func (s *ScoutingService) CreatePicklist(title string) (*Picklist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.picklists) >= maxPicklists {
		return nil, ErrPicklistLimit
	}
	for _, list := range s.picklists {
		if list.Title == title {
			return nil, fmt.Errorf("picklist %q already exists", title)
		}
	}
	list := &Picklist{Title: title}
	s.picklists = append(s.picklists, list)
	return list, nil
}

func (s *ScoutingService) picklist(title string) (*Picklist, error) {
	for _, list := range s.picklists {
		if list.Title == title {
			return list, nil
		}
	}
	return nil, fmt.Errorf("no picklist %q", title)
}

// AddToPicklist appends a team; adding a team already on the list is a
// no-op. The team must appear in the loaded roster.
func (s *ScoutingService) AddToPicklist(title, team string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.picklist(title)
	if err != nil {
		return err
	}
	if s.state != nil && !rosterContains(s.state.Roster, team) {
		return fmt.Errorf("there is no team %s at this event", team)
	}
	for _, t := range list.Teams {
		if t == team {
			return nil
		}
	}
	list.Teams = append(list.Teams, team)
	return nil
}

func rosterContains(roster []string, team string) bool {
	for _, t := range roster {
		if t == team {
			return true
		}
	}
	return false
}

// DeletePicklist drops a list from the session. Saved files are untouched.
func (s *ScoutingService) DeletePicklist(title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, list := range s.picklists {
		if list.Title == title {
			s.picklists = append(s.picklists[:i], s.picklists[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("no picklist %q", title)
}

// RemoveFromPicklist drops a team from the list.
func (s *ScoutingService) RemoveFromPicklist(title, team string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.picklist(title)
	if err != nil {
		return err
	}
	for i, t := range list.Teams {
		if t == team {
			list.Teams = append(list.Teams[:i], list.Teams[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("team %s is not on picklist %q", team, title)
}

// MoveInPicklist shifts a team by offset positions, clamped to the list
// bounds.
func (s *ScoutingService) MoveInPicklist(title, team string, offset int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.picklist(title)
	if err != nil {
		return err
	}
	from := -1
	for i, t := range list.Teams {
		if t == team {
			from = i
			break
		}
	}
	if from == -1 {
		return fmt.Errorf("team %s is not on picklist %q", team, title)
	}
	to := from + offset
	if to < 0 {
		to = 0
	}
	if to >= len(list.Teams) {
		to = len(list.Teams) - 1
	}
	moved := list.Teams[from]
	list.Teams = append(list.Teams[:from], list.Teams[from+1:]...)
	list.Teams = append(list.Teams[:to], append([]string{moved}, list.Teams[to:]...)...)
	return nil
}

// SavePicklist writes a picklist to the picklists directory and returns the
// path.
func (s *ScoutingService) SavePicklist(title string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list, err := s.picklist(title)
	if err != nil {
		return "", err
	}
	return s.store.SavePicklist(list.Title, list.Teams)
}

// LoadPicklistFile reads a previously saved picklist back into the session.
func (s *ScoutingService) LoadPicklistFile(path string) (*Picklist, error) {
	title, teams, err := s.store.LoadPicklist(path)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.picklists) >= maxPicklists {
		return nil, ErrPicklistLimit
	}
	for _, list := range s.picklists {
		if list.Title == title {
			list.Teams = teams
			return list, nil
		}
	}
	list := &Picklist{Title: title, Teams: teams}
	s.picklists = append(s.picklists, list)
	return list, nil
}
