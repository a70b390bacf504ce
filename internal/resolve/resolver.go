package resolve

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"extras-generator/internal/analyze"
	"extras-generator/internal/diagnostic"
	"extras-generator/internal/model"
)

// Provider is the view of analyzed source the resolver consumes.
type Provider interface {
	// ModelDeclarations lists every declaration carrying the model directive.
	ModelDeclarations() []*analyze.ModelDecl
	// SuperclassOf returns the embedded struct acting as the declared parent of id.
	SuperclassOf(id model.TypeID) (analyze.Embed, bool)
	// DeclaresFields reports whether a non-model struct carries bindable fields.
	DeclaresFields(id model.TypeID) bool
}

// Config holds configuration for the resolution process.
type Config struct {
	// Suffix is the required model name suffix.
	Suffix string
	// Logger receives progress messages. Nil discards them.
	Logger *slog.Logger
}

// Context is the model registry of one generation pass. It is built by
// Resolve, read by the planner and discarded afterwards.
type Context struct {
	// Models are the accepted models, ancestors before descendants.
	Models []*model.Target
	// Diagnostics holds every rejected declaration.
	Diagnostics diagnostic.Diagnostics

	byID     map[model.TypeID]*model.Target
	rejected map[model.TypeID]bool
}

// Lookup returns the accepted model with the given id.
func (c *Context) Lookup(id model.TypeID) (*model.Target, bool) {
	t, ok := c.byID[id]
	return t, ok
}

// Rejected reports whether a declared model was rejected.
func (c *Context) Rejected(id model.TypeID) bool {
	return c.rejected[id]
}

// Resolver builds targets from declarations and links their ancestry.
type Resolver struct {
	provider Provider
	config   Config
	logger   *slog.Logger
}

// NewResolver creates a new Resolver.
func NewResolver(provider Provider, config Config) *Resolver {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Resolver{
		provider: provider,
		config:   config,
		logger:   logger,
	}
}

// declared is one model declaration on its way through resolution.
type declared struct {
	decl   *analyze.ModelDecl
	target *model.Target // nil when the declaration was rejected
	parent int           // index of the parent declaration, -1 when absent
	path   []model.EmbedStep
}

// Resolve builds every target, links parents and closest required
// ancestors, and orders the accepted models ancestor first. Rejections are
// reported in the returned context; only cyclic ancestry is returned as an
// error.
func (r *Resolver) Resolve() (*Context, error) {
	ctx := &Context{
		byID:     make(map[model.TypeID]*model.Target),
		rejected: make(map[model.TypeID]bool),
	}

	decls := r.provider.ModelDeclarations()
	nodes := make([]*declared, len(decls))
	index := make(map[model.TypeID]int, len(decls))

	for i, decl := range decls {
		nodes[i] = &declared{decl: decl, parent: -1}
		nodes[i].target = r.buildTarget(ctx, decl)

		if decl.TopLevel {
			index[decl.ID] = i
		}
	}

	r.resolveParents(ctx, nodes, index)

	order, err := topoSort(len(nodes), func(i int) []int {
		if nodes[i].parent < 0 {
			return nil
		}

		return []int{nodes[i].parent}
	})
	if err != nil {
		if errors.Is(err, errCycle) {
			return ctx, cycleError(nodes, order)
		}

		return ctx, err
	}

	for _, i := range order {
		n := nodes[i]
		if n.target == nil {
			ctx.rejected[n.decl.ID] = true
			continue
		}

		if n.parent >= 0 {
			parent := nodes[n.parent]
			if parent.target == nil {
				ctx.Diagnostics.Add(model.NewViolation(
					model.ViolationAncestorResolution, n.decl.ID.String(), "",
					fmt.Sprintf("parent %s does not have a builder; it was rejected.", parent.decl.ID),
					n.decl.Pos).Diagnostic())
				ctx.rejected[n.decl.ID] = true
				n.target = nil

				continue
			}

			n.target.Parent = parent.target
			n.target.ParentPath = n.path
		}

		ResolveClosestRequiredAncestor(n.target)

		ctx.Models = append(ctx.Models, n.target)
		ctx.byID[n.decl.ID] = n.target
	}

	r.logger.Info("resolved models", "accepted", len(ctx.Models), "rejected", len(ctx.rejected))

	return ctx, nil
}

// buildTarget validates a declaration and adds its bindings. Every problem
// of the declaration is reported; any problem rejects the model.
func (r *Resolver) buildTarget(ctx *Context, decl *analyze.ModelDecl) *model.Target {
	target, err := model.NewTarget(decl.Declaration, r.config.Suffix)
	if err != nil {
		model.Report(&ctx.Diagnostics, err)
		return nil
	}

	ok := true

	for _, f := range decl.Fields {
		if err := target.AddBinding(f); err != nil {
			model.Report(&ctx.Diagnostics, err)

			ok = false
		}
	}

	if !ok {
		return nil
	}

	return target
}

// resolveParents links every top-level struct declaration to its parent declaration.
func (r *Resolver) resolveParents(ctx *Context, nodes []*declared, index map[model.TypeID]int) {
	for _, n := range nodes {
		if !n.decl.TopLevel || !n.decl.Struct {
			continue
		}

		r.resolveParent(ctx, n, index)
	}
}

// resolveParent walks the declared superclass chain of n until it reaches a
// declared model. A non-model struct carrying bindable fields on the way is
// an ancestor-resolution failure; field-less structs are walked through.
func (r *Resolver) resolveParent(ctx *Context, n *declared, index map[model.TypeID]int) {
	cur := n.decl.ID
	seen := map[model.TypeID]bool{cur: true}

	var path []model.EmbedStep

	for {
		sup, ok := r.provider.SuperclassOf(cur)
		if !ok {
			return
		}

		path = append(path, model.EmbedStep{Field: sup.Field, Pointer: sup.Pointer, Type: sup.Type})

		if i, ok := index[sup.Type]; ok {
			n.parent = i
			n.path = path

			return
		}

		if r.provider.DeclaresFields(sup.Type) {
			if n.target != nil {
				ctx.Diagnostics.Add(model.NewViolation(
					model.ViolationAncestorResolution, n.decl.ID.String(), "",
					fmt.Sprintf("parent does not have a builder. Is %s an extras model?", sup.Type),
					n.decl.Pos).Diagnostic())
				n.target = nil
			}

			return
		}

		if seen[sup.Type] {
			return
		}

		seen[sup.Type] = true
		cur = sup.Type
	}
}

// ResolveClosestRequiredAncestor follows parent links and records the first
// ancestor that has a required binding.
func ResolveClosestRequiredAncestor(t *model.Target) {
	t.ClosestRequiredAncestor = nil

	for p := t.Parent; p != nil; p = p.Parent {
		if p.HasRequiredFields() {
			t.ClosestRequiredAncestor = p
			return
		}
	}
}

// cycleError names the models that could not be ordered.
func cycleError(nodes []*declared, order []int) error {
	placed := make(map[int]bool, len(order))
	for _, i := range order {
		placed[i] = true
	}

	var names []string

	for i, n := range nodes {
		if !placed[i] {
			names = append(names, n.decl.ID.String())
		}
	}

	sort.Strings(names)

	return &model.CycleError{Models: names}
}
