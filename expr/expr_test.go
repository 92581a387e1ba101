package expr

import (
	"sync"
	"testing"
)

func sym(s string) Symbol { return Symbol(s) }

// identity builds λx. x
func identity[E Expression[E]](x string) E {
	return Lam(sym(x), Var[E](sym(x)))
}

// spine builds f (f (... (f x))) nested depth times on the argument side.
func spine[E Expression[E]](depth int) E {
	e := Var[E]("x")
	for i := 0; i < depth; i++ {
		e = App(Var[E]("f"), e)
	}
	return e
}

// tower builds λa. λa. ... a nested depth times.
func tower[E Expression[E]](depth int) E {
	e := Var[E]("a")
	for i := 0; i < depth; i++ {
		e = Lam("a", e)
	}
	return e
}

func TestSymbol(t *testing.T) {
	if !Empty.IsEmpty() {
		t.Error("Expected Empty to be empty")
	}
	if got := sym("x").Primed().Primed(); got != "x__" {
		t.Errorf("Expected 'x__', got '%s'", got)
	}
	if sym("a").Compare("b") >= 0 {
		t.Error("Expected a < b")
	}
}

func TestTagString(t *testing.T) {
	if TagLam.String() != "Lam" {
		t.Errorf("Expected 'Lam', got '%s'", TagLam.String())
	}
	if Tag(9).String() != "Tag(9)" {
		t.Errorf("Expected 'Tag(9)', got '%s'", Tag(9).String())
	}
}

func TestBuilders(t *testing.T) {
	t.Run("Boxed", testBuilders[Boxed])
	t.Run("Local", testBuilders[Local])
	t.Run("Shared", testBuilders[Shared])
}

func testBuilders[E Expression[E]](t *testing.T) {
	e := Apps(Lams([]Symbol{"a", "b"}, Var[E]("a")), Var[E]("x"), Var[E]("y"))
	if got := describe(e); got != "(((λa. (λb. a)) x) y)" {
		t.Errorf("Expected '(((λa. (λb. a)) x) y)', got '%s'", got)
	}
	k := e.Kind()
	if !k.IsApp() || !k.Fun.Kind().IsApp() || !k.Arg.Kind().IsVar() {
		t.Errorf("Expected left-nested application, got %s", describe(e))
	}
	var zero Kind[E]
	if !zero.IsPlaceholder() {
		t.Error("Expected zero Kind to be the placeholder")
	}
}

func TestTakeLeavesPlaceholder(t *testing.T) {
	t.Run("Boxed", testTakeLeavesPlaceholder[Boxed])
	t.Run("Local", testTakeLeavesPlaceholder[Local])
	t.Run("Shared", testTakeLeavesPlaceholder[Shared])
}

func testTakeLeavesPlaceholder[E Expression[E]](t *testing.T) {
	e := App(identity[E]("x"), Var[E]("y"))
	k, ok := e.Kind().Fun.TryTakeKind()
	if !ok {
		t.Fatal("Expected take to succeed on a uniquely owned child")
	}
	if !k.IsLam() || k.Symbol != "x" {
		t.Errorf("Expected taken node λx, got %v %s", k.Tag, k.Symbol)
	}
	if !e.Kind().Fun.Kind().IsPlaceholder() {
		t.Errorf("Expected placeholder left behind, got %s", describe(e))
	}
	DropKind(k)
	e.Release()
}

func TestDeepCloneIndependent(t *testing.T) {
	t.Run("Boxed", testDeepCloneIndependent[Boxed])
	t.Run("Local", testDeepCloneIndependent[Local])
	t.Run("Shared", testDeepCloneIndependent[Shared])
}

func testDeepCloneIndependent[E Expression[E]](t *testing.T) {
	orig := Lam("x", App(Var[E]("x"), Var[E]("y")))
	c := DeepClone(orig)
	if !Equal(orig, c) {
		t.Fatalf("Expected clone to equal original, got %s and %s", describe(orig), describe(c))
	}
	if orig.Kind() == c.Kind() {
		t.Fatal("Expected deep clone to allocate a new root")
	}
	body, ok := c.Kind().Body.TryKindMut()
	if !ok {
		t.Fatal("Expected clone body to be writable")
	}
	body.Arg = Var[E]("z")
	if Equal(orig, c) {
		t.Error("Expected mutating the clone to leave the original unchanged")
	}
	if got := describe(orig); got != "(λx. (x y))" {
		t.Errorf("Expected '(λx. (x y))', got '%s'", got)
	}
}

func TestConvert(t *testing.T) {
	b := Lam("f", App(Var[Boxed]("f"), Var[Boxed]("f")))
	s := Convert[Boxed, Shared](b)
	l := Convert[Shared, Local](s)
	if describe(b) != describe(s) || describe(s) != describe(l) {
		t.Errorf("Expected identical renderings, got %s, %s, %s", describe(b), describe(s), describe(l))
	}
	if Hash(b) != Hash(s) || Fingerprint(s) != Fingerprint(l) {
		t.Error("Expected hashes to be independent of the realization")
	}
}

func TestEquality(t *testing.T) {
	t.Run("Boxed", testEquality[Boxed])
	t.Run("Local", testEquality[Local])
	t.Run("Shared", testEquality[Shared])
}

func testEquality[E Expression[E]](t *testing.T) {
	tests := []struct {
		name string
		a, b E
		want bool
	}{
		{"same var", Var[E]("x"), Var[E]("x"), true},
		{"different var", Var[E]("x"), Var[E]("y"), false},
		{"not alpha aware", identity[E]("x"), identity[E]("y"), false},
		{"same lambda", identity[E]("x"), identity[E]("x"), true},
		{"shape", App(Var[E]("x"), Var[E]("x")), identity[E]("x"), false},
		{"argument differs", App(Var[E]("f"), Var[E]("x")), App(Var[E]("f"), Var[E]("y")), false},
	}
	for _, tt := range tests {
		if got := Equal(tt.a, tt.b); got != tt.want {
			t.Errorf("%s: Expected Equal=%v, got %v", tt.name, tt.want, got)
		}
		if tt.want && Hash(tt.a) != Hash(tt.b) {
			t.Errorf("%s: Expected equal terms to hash alike", tt.name)
		}
		if tt.want != (Fingerprint(tt.a) == Fingerprint(tt.b)) {
			t.Errorf("%s: Expected fingerprint equality to be %v", tt.name, tt.want)
		}
	}
}

func TestOrderingTotal(t *testing.T) {
	t.Run("Boxed", testOrderingTotal[Boxed])
	t.Run("Local", testOrderingTotal[Local])
	t.Run("Shared", testOrderingTotal[Shared])
}

func testOrderingTotal[E Expression[E]](t *testing.T) {
	sample := []E{
		Var[E]("a"),
		Var[E]("b"),
		App(Var[E]("a"), Var[E]("a")),
		App(Var[E]("a"), Var[E]("b")),
		App(Var[E]("b"), Var[E]("a")),
		App(identity[E]("a"), Var[E]("a")),
		identity[E]("a"),
		identity[E]("b"),
		Lam("a", Var[E]("b")),
		Lam("a", App(Var[E]("a"), Var[E]("a"))),
	}
	if Compare(sample[1], sample[2]) >= 0 || Compare(sample[5], sample[6]) >= 0 {
		t.Error("Expected Var < App < Lam")
	}
	for i, a := range sample {
		for j, b := range sample {
			ab, ba := Compare(a, b), Compare(b, a)
			if (i == j) != (ab == 0) {
				t.Errorf("Expected Compare(%s, %s)==0 iff same term, got %d", describe(a), describe(b), ab)
			}
			if sign(ab) != -sign(ba) {
				t.Errorf("Expected antisymmetry for %s and %s", describe(a), describe(b))
			}
			for _, c := range sample {
				if ab < 0 && Compare(b, c) < 0 && Compare(a, c) >= 0 {
					t.Errorf("Expected transitivity: %s < %s < %s", describe(a), describe(b), describe(c))
				}
			}
		}
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

func TestDeepTerms(t *testing.T) {
	t.Run("Boxed", testDeepTerms[Boxed])
	t.Run("Local", testDeepTerms[Local])
	t.Run("Shared", testDeepTerms[Shared])
}

func testDeepTerms[E Expression[E]](t *testing.T) {
	const depth = 200000
	for _, e := range []E{spine[E](depth), tower[E](depth)} {
		c := DeepClone(e)
		if !Equal(e, c) {
			t.Error("Expected deep clone of a deep term to be equal")
		}
		if Hash(e) != Hash(c) {
			t.Error("Expected deep clone of a deep term to hash alike")
		}
		c.Release()
		e.Release()
		if !e.Kind().IsPlaceholder() {
			t.Error("Expected released root to be emptied")
		}
	}
}

func TestSharedOwnership(t *testing.T) {
	t.Run("Local", testSharedOwnership[Local])
	t.Run("Shared", testSharedOwnership[Shared])
}

func testSharedOwnership[E SharedExpression[E]](t *testing.T) {
	a := identity[E]("x")
	b := ShallowClone(a)
	if a.Owners() != 2 {
		t.Fatalf("Expected 2 owners, got %d", a.Owners())
	}
	if a.Kind() != b.Kind() {
		t.Error("Expected shallow clone to share the node")
	}
	if _, ok := a.TryKindMut(); ok {
		t.Error("Expected mutation to be refused while shared")
	}
	if _, ok := a.TryTakeKind(); ok {
		t.Error("Expected take to be refused while shared")
	}
	if _, ok := a.TryIntoKind(); ok {
		t.Error("Expected extraction to be refused while shared")
	}
	if !Equal(a, identity[E]("x")) {
		t.Error("Expected a refused extraction to leave the term intact")
	}
	if DropInPlace(a) {
		t.Error("Expected DropInPlace to refuse a shared term")
	}
	b.Release()
	if a.Owners() != 1 {
		t.Fatalf("Expected 1 owner after release, got %d", a.Owners())
	}
	k, ok := a.TryIntoKind()
	if !ok || !k.IsLam() {
		t.Fatal("Expected extraction to succeed for the sole owner")
	}
	DropKind(k)
}

func TestReleaseDropsChildReferences(t *testing.T) {
	t.Run("Local", testReleaseDropsChildReferences[Local])
	t.Run("Shared", testReleaseDropsChildReferences[Shared])
}

func testReleaseDropsChildReferences[E SharedExpression[E]](t *testing.T) {
	child := identity[E]("y")
	parent := Lam("x", App(child.Clone(), Var[E]("x")))
	other := App(child.Clone(), child.Clone())
	if child.Owners() != 4 {
		t.Fatalf("Expected 4 owners, got %d", child.Owners())
	}
	parent.Release()
	other.Release()
	if child.Owners() != 1 {
		t.Errorf("Expected 1 owner once parents are released, got %d", child.Owners())
	}
	if _, ok := child.TryKindMut(); !ok {
		t.Error("Expected the child to be writable again")
	}
}

func TestSharedConcurrentOwners(t *testing.T) {
	root := Lam("x", App(Var[Shared]("x"), Var[Shared]("x")))
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				c := root.Clone()
				if c.Kind().Symbol != "x" {
					t.Error("Expected shared node to stay intact")
					return
				}
				c.Release()
			}
		}()
	}
	wg.Wait()
	if root.Owners() != 1 {
		t.Errorf("Expected 1 owner after all goroutines finish, got %d", root.Owners())
	}
}

func TestBoxedCloneIsDeep(t *testing.T) {
	a := identity[Boxed]("x")
	b := a.Clone()
	if a.Kind() == b.Kind() {
		t.Error("Expected Boxed clone to copy the node")
	}
	b.Release()
	if !b.Kind().IsPlaceholder() {
		t.Error("Expected released Boxed handle to hold the placeholder")
	}
	if !Equal(a, identity[Boxed]("x")) {
		t.Error("Expected original to survive release of its clone")
	}
}
