package fold

// The recursions. Each one emits every term contributing to a cell, and is
// used both to fill the tables and to backtrack through them. Indices wrap
// around modulo N so circular sequences and every ligation point are handled
// the same way; cutpoints break the backbone between strands.

// expand emits the terms for a cell
func (e *engine) expand(r ref, emit emitter) {
	switch r.t {
	case zCut:
		e.zCutTerms(r.i, r.j, emit)
	case zBP:
		e.zBPTerms(r.i, r.j, emit)
	case zCoax:
		e.zCoaxTerms(r.i, r.j, emit)
	case cEff:
		e.cEffTerms(r.i, r.j, true, true, emit)
	case cEffNoCoaxSinglet:
		e.cEffTerms(r.i, r.j, true, false, emit)
	case cEffNoBPSinglet:
		e.cEffTerms(r.i, r.j, false, true, emit)
	case zLinear:
		e.zLinearTerms(r.i, r.j, emit)
	}
}

// zCutTerms: one segment from i to a cutpoint c, and another from c+1 to j,
// combined independently. Analogous to the exterior loop of multistrand
// calculations.
func (e *engine) zCutTerms(i, j int, emit emitter) {
	offset := e.mod(j - i)
	for c := i; c < i+offset; c++ {
		if !e.cut[e.mod(c)] {
			continue
		}

		var refs []ref
		w := 1.0
		if e.mod(c) != i {
			seg := ref{zLinear, e.mod(i + 1), e.mod(c)}
			w *= e.Q(seg)
			refs = append(refs, seg)
		}
		if e.mod(c+1) != j {
			seg := ref{zLinear, e.mod(c + 1), e.mod(j - 1)}
			w *= e.Q(seg)
			refs = append(refs, seg)
		}
		emit(mk(w, refs...))
	}
}

// zBPTerms: structures with i paired to j
func (e *engine) zBPTerms(i, j int, emit emitter) {
	kd := e.kd[i][j]
	if kd == 0 {
		return
	}

	m := e.m
	offset := e.mod(j - i)

	// minimum loop length, on whichever side is a hairpin
	if !e.anyCut[i][j] && e.mod(j-i-1) < m.MinLoopLength {
		return
	}
	if !e.anyCut[j][i] && e.mod(i-j-1) < m.MinLoopLength {
		return
	}

	cEffForCoax, cEffForBP := cEff, cEff
	if !m.AllowStrained3WJ {
		cEffForCoax, cEffForBP = cEffNoBPSinglet, cEffNoCoaxSinglet
	}

	// the loop closed by (i,j) needs at least one nucleotide in it
	i1, j1 := e.mod(i+1), e.mod(j-1)
	closesLoop := offset > 1 && !e.cut[i] && !e.cut[j1]

	if closesLoop {
		// pair closes a loop
		//
		//    ~~~~~~
		//   ~      ~
		// i+1      j-1
		//   \       /
		//    i ... j
		inner := ref{cEffForBP, i1, j1}
		emit(mk(e.Q(inner)*m.L*m.L*m.LBP/kd, inner))

		// stacked on the pair (i+1, j-1)
		stack := ref{zBP, i1, j1}
		emit(mk(m.CEffStackedPair*e.Q(stack)/kd, stack))
	}

	// pair brings together two strands that were disconnected
	//
	//   \       /
	//    i ... j
	cut := ref{zCut, i, j}
	emit(mk(m.CStd*e.Q(cut)/kd, cut))

	if closesLoop {
		coax := m.L * m.L * m.LCoax * m.KCoax / kd

		// coaxial stack on (i+1, k), loop closed on the right
		//      ___
		//     /   \
		//  i+1 ... k - k+1 ~
		//    |              ~
		//    i ... j - j-1 ~
		for k := i + 2; k < i+offset-1; k++ {
			if e.cut[e.mod(k)] {
				continue
			}
			helix, loop := ref{zBP, i1, e.mod(k)}, ref{cEffForCoax, e.mod(k + 1), j1}
			emit(mk(e.Q(helix)*e.Q(loop)*coax, helix, loop))
		}

		// coaxial stack on (k, j-1), loop closed on the left
		//            ___
		//           /   \
		//  ~ k-1 - k ... j-1
		// ~              |
		//  ~ i+1 - i ... j
		for k := i + 2; k < i+offset-1; k++ {
			if e.cut[e.mod(k-1)] {
				continue
			}
			loop, helix := ref{cEffForCoax, i1, e.mod(k - 1)}, ref{zBP, e.mod(k), j1}
			emit(mk(e.Q(loop)*e.Q(helix)*coax, loop, helix))
		}
	}

	// coaxial stack on (i+1, k), free strands hanging off the j end
	//      ___
	//     /   \
	//  i+1 ... k -
	//    |
	//    i ... j -
	if !e.cut[i] {
		for k := i + 2; k < i+offset; k++ {
			helix, free := ref{zBP, i1, e.mod(k)}, ref{zCut, e.mod(k), j}
			emit(mk(e.Q(helix)*e.Q(free)*m.CStd*m.KCoax/kd, helix, free))
		}
	}

	// coaxial stack on (k, j-1), free strands hanging off the i end
	//       ___
	//      /   \
	//   - k ... j-1
	//           |
	//   - i ... j
	if !e.cut[j1] {
		for k := i; k < i+offset-1; k++ {
			free, helix := ref{zCut, i, e.mod(k)}, ref{zBP, e.mod(k), j1}
			emit(mk(e.Q(free)*e.Q(helix)*m.CStd*m.KCoax/kd, free, helix))
		}
	}
}

// zCoaxTerms: coaxial stacks between (i,k) and (k+1,j) for some k
//
//	  -- k - k+1 -
//	 /   :    :   \
//	 \   :    :   /
//	  -- i    j --
func (e *engine) zCoaxTerms(i, j int, emit emitter) {
	offset := e.mod(j - i)
	for k := i + 1; k < i+offset-1; k++ {
		if e.cut[e.mod(k)] {
			continue
		}
		left, right := ref{zBP, i, e.mod(k)}, ref{zBP, e.mod(k + 1), j}
		emit(mk(e.Q(left)*e.Q(right)*e.m.KCoax, left, right))
	}
}

// cEffTerms: effective molarity of a loop segment from i to j. Each element
// in the loop multiplies in a penalty (l, l_BP) or bonus (l_coax). bpSinglet
// and coaxSinglet include the terms where the whole segment is one helix or
// one coaxial stack.
func (e *engine) cEffTerms(i, j int, bpSinglet, coaxSinglet bool, emit emitter) {
	m := e.m
	offset := e.mod(j - i)

	// closing the full circle with a lone helix or coax stack next to the other
	// helix would be a strained three-way junction
	excludeStrained := !m.AllowStrained3WJ && offset == e.n-1 && !e.cut[j]

	// j is unpaired: extend by one residue from j-1
	//
	//    i ~~~~~~ j-1 - j
	if !e.cut[e.mod(j-1)] {
		prev := ref{cEff, i, e.mod(j - 1)}
		emit(mk(e.Q(prev)*m.L, prev))
	}

	// j is paired with k > i
	//                 ___
	//                /   \
	//    i ~~~~k-1 - k...j
	forBP := cEff
	if excludeStrained {
		forBP = cEffNoCoaxSinglet
	}
	for k := i + 1; k < i+offset; k++ {
		if e.cut[e.mod(k-1)] {
			continue
		}
		loop, helix := ref{forBP, i, e.mod(k - 1)}, ref{zBP, e.mod(k), j}
		emit(mk(e.Q(loop)*m.L*e.Q(helix)*m.LBP, loop, helix))
	}

	// j is coaxially stacked, with partner k > i
	//               _______
	//              / :   : \
	//              \ :   : /
	//    i ~~~~k-1 - k   j
	forCoax := cEff
	if excludeStrained {
		forCoax = cEffNoBPSinglet
	}
	for k := i + 1; k < i+offset; k++ {
		if e.cut[e.mod(k-1)] {
			continue
		}
		loop, stack := ref{forCoax, i, e.mod(k - 1)}, ref{zCoax, e.mod(k), j}
		emit(mk(e.Q(loop)*e.Q(stack)*m.L*m.LCoax, loop, stack))
	}

	// j is paired with i
	if bpSinglet {
		helix := ref{zBP, i, j}
		emit(mk(m.CInit*e.Q(helix)*m.LBP, helix))
	}

	// j is coaxially stacked, with partner i
	if coaxSinglet {
		stack := ref{zCoax, i, j}
		emit(mk(m.CInit*e.Q(stack)*m.LCoax, stack))
	}
}

// zLinearTerms: everything from i to j, assuming all intervening residues are
// covalently connected or base paired
func (e *engine) zLinearTerms(i, j int, emit emitter) {
	offset := e.mod(j - i)

	// j is unpaired
	if !e.cut[e.mod(j-1)] {
		prev := ref{zLinear, i, e.mod(j - 1)}
		emit(mk(e.Q(prev), prev))
	}

	// j is paired with i
	helix := ref{zBP, i, j}
	emit(mk(e.Q(helix), helix))

	// j is paired with k > i
	for k := i + 1; k < i+offset; k++ {
		if e.cut[e.mod(k-1)] {
			continue
		}
		before, helix := ref{zLinear, i, e.mod(k - 1)}, ref{zBP, e.mod(k), j}
		emit(mk(e.Q(before)*e.Q(helix), before, helix))
	}

	// j is coaxially stacked, with partner i
	stack := ref{zCoax, i, j}
	emit(mk(e.Q(stack), stack))

	// j is coaxially stacked, with partner k > i
	for k := i + 1; k < i+offset; k++ {
		if e.cut[e.mod(k-1)] {
			continue
		}
		before, stack := ref{zLinear, i, e.mod(k - 1)}, ref{zCoax, e.mod(k), j}
		emit(mk(e.Q(before)*e.Q(stack), before, stack))
	}
}

// finalTerms: the total partition function, computed from the point of view
// of the backbone connection (or cutpoint) between i-1 and i. Every i gives
// the same answer.
func (e *engine) finalTerms(i int, emit emitter) {
	m := e.m
	n := e.n
	prev := e.mod(i - 1)

	if e.cut[prev] {
		//      i ------- i-1
		all := ref{zLinear, i, prev}
		emit(mk(e.Q(all), all))
		return
	}

	// ligate across i-1 to i. The lone coax stack is excluded from C_eff since
	// it's covered by the stacked pair term below
	loop := ref{cEffNoCoaxSinglet, i, prev}
	emit(mk(e.Q(loop)*m.L/m.CStd, loop))

	// split segments, combined independently
	//
	//   c+1 --- i-1 - i --- c
	for c := i; c < i+n-1; c++ {
		if !e.cut[e.mod(c)] {
			continue
		}
		left, right := ref{zLinear, i, e.mod(c)}, ref{zLinear, e.mod(c + 1), prev}
		emit(mk(e.Q(left)*e.Q(right), left, right))
	}

	// pairs (i,j) and (j+1,i-1) stacked across the ligation point
	//
	//   - j+1 - j -
	//      :    :
	//   - i-1 - i -
	for j := i + 1; j < i+n-1; j++ {
		if e.cut[e.mod(j)] {
			continue
		}
		left, right := ref{zBP, i, e.mod(j)}, ref{zBP, e.mod(j + 1), prev}
		emit(mk(m.CEffStackedPair*e.Q(left)*e.Q(right), left, right))
	}

	forCoax := cEff
	if !m.AllowStrained3WJ {
		forCoax = cEffNoBPSinglet
	}

	// a coaxial stack across the ligation point
	for j := i + 1; j < i+n-2; j++ {
		// the two stacked pairs are connected by a loop
		//
		//       ~~~~
		//   -- k    j --
		//  /   :    :   \
		//  \   :    :   /
		//   - i-1 - i --
		for k := j + 2; k < i+n-1; k++ {
			if e.cut[e.mod(j)] || e.cut[e.mod(k-1)] {
				continue
			}
			left, loop, right := ref{zBP, i, e.mod(j)}, ref{forCoax, e.mod(j + 1), e.mod(k - 1)}, ref{zBP, e.mod(k), prev}
			emit(mk(e.Q(left)*e.Q(loop)*e.Q(right)*m.L*m.L*m.LCoax*m.KCoax, left, loop, right))
		}

		// the two stacked pairs are in split segments
		//
		//      \    /
		//   -- k    j --
		//  /   :    :   \
		//  \   :    :   /
		//   - i-1 - i --
		for k := j + 1; k < i+n-1; k++ {
			left, free, right := ref{zBP, i, e.mod(j)}, ref{zCut, e.mod(j), e.mod(k)}, ref{zBP, e.mod(k), prev}
			emit(mk(e.Q(left)*e.Q(free)*e.Q(right)*m.KCoax, left, free, right))
		}
	}
}
