// Package arena2d is a retained-mode 2D scene-graph runtime: a node tree
// with transforms, flex/anchor layout, paint, pixel-accurate hit testing,
// and bubbling pointer/keyboard/drag events.
//
// # Scene graph
//
// Every element is a [Node]. Nodes form a tree rooted at [Scene.Root]; any
// node may carry children — container is a role, not a distinct type.
//
//	scene := arena2d.NewScene(800, 600)
//	panel := arena2d.NewNode("panel")
//	scene.Root().AddChild(panel)
//
//	label := arena2d.NewNode("label")
//	label.SetPosition(20, 20)
//	panel.AddChild(label)
//
// # Layout
//
// Setting a node's Style.Display to [LayoutFlex] or [LayoutAnchor] hands
// its children's position and size to [ResolveLayout], run once per frame
// by the [FrameDriver] whenever the tree carries a layout-dirty node.
//
// # Views and interaction
//
// A [View] is a camera into the scene — position, zoom, rotation, DPR —
// with its own [InteractionManager] for pointer/keyboard dispatch and
// broad-phase hit testing:
//
//	view := arena2d.NewView("main", arena2d.Rect{Width: 800, Height: 600})
//	scene.AddView(view)
//	view.Interaction.DispatchPointer(0, x, y, true, arena2d.MouseButtonLeft, 0)
//
// Concrete rendering and input polling against a host surface live in the
// ebitenhost subpackage, which implements [PaintContext] over ebiten and
// feeds ebiten's input APIs into a Scene's views.
package arena2d
