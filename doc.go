/*
Package ecs is a small Entity-Component System runtime.

A World owns everything: the component registry, one store per component type, the live entity population and the
ordered list of systems. Entities are created from the world and carry components attached with With:

	w, err := ecs.NewWorld()
	if err != nil {
		return err
	}
	defer w.Close()

	p := w.Create().Attach(ecs.With(Collide{}), ecs.With(MoveTo{X: 1}))
	if err := p.Err(); err != nil {
		return err
	}
	defer p.Destroy()

Queries describe which components a system wants and how it wants them. Read yields copies, Write yields pointers
into the store, and Join combines queries so that only entities carrying every component match:

	movers, err := ecs.Join(ecs.Read[Collide](), ecs.Write[MoveTo]())

A component type may appear only once in a query; Join rejects anything else with ErrIllFormedQuery before any
entity is looked at.

Systems are bound to one query and run once per tick, in registration order, each over its own fresh result set:

	err = ecs.RegisterSystem(w, movers, func(sCtx ecs.SystemContext, rows []ecs.Pair[Collide, *MoveTo]) error {
		for _, row := range rows {
			row.Second.X++
		}
		return nil
	})
	err = w.Tick(ctx, w.Entities())
*/
package ecs
