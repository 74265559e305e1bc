package grammar

// Shortcut returns a shortest terminal string derivable from sym. Terminals
// expand to themselves, nullable non-terminals to the empty string. Callers
// must not modify the returned slice.
//
// Shortcuts exist for every symbol of a (cleaned up) grammar, since every
// retained symbol is productive.
func (ga *LRAnalysis) Shortcut(sym *Symbol) []*Symbol {
	return ga.shortcuts[sym]
}

// ShortcutWord expands a word of symbols into a terminal string by
// concatenating the shortcuts of its symbols.
func (ga *LRAnalysis) ShortcutWord(word []*Symbol) []*Symbol {
	var expansion []*Symbol
	for _, sym := range word {
		expansion = append(expansion, ga.shortcuts[sym]...)
	}
	return expansion
}

// Shortest expansions by work-list: a non-terminal gets a shortcut as soon
// as every symbol of some rule's RHS has one; among the candidate rules the
// shortest concatenation wins. Termination is guaranteed because every
// symbol of a cleaned-up grammar is productive.
func (ga *LRAnalysis) computeShortcuts() {
	ga.shortcuts = map[*Symbol][]*Symbol{}
	todo := map[*Symbol]bool{}
	ga.g.EachSymbol(func(sym *Symbol) {
		switch {
		case sym.IsTerminal():
			ga.shortcuts[sym] = []*Symbol{sym}
		case ga.nullable[sym]:
			ga.shortcuts[sym] = []*Symbol{}
		default:
			todo[sym] = true
		}
	})
	for len(todo) > 0 {
		resolved := 0
		ga.g.EachNonTerminal(func(sym *Symbol) {
			if !todo[sym] {
				return
			}
			var best []*Symbol
			found := false
			for _, r := range ga.g.RulesFor(sym) {
				ok := true
				for _, b := range r.rhs {
					if _, has := ga.shortcuts[b]; !has {
						ok = false
						break
					}
				}
				if !ok {
					continue
				}
				word := ga.ShortcutWord(r.rhs)
				if !found || len(word) < len(best) {
					best = word
					found = true
				}
			}
			if found {
				ga.shortcuts[sym] = best
				delete(todo, sym)
				resolved++
			}
		})
		if resolved == 0 { // non-productive symbol survived cleanup?
			tracer().Errorf("shortcut computation stalled with %d symbols left", len(todo))
			break
		}
	}
}
