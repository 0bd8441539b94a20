package tools

import (
	"context"
)

type ITool interface {
	SetTitle(string)
	Title() string
	SetDescription(string)
	Description() string
	SetStartHook(fn func(context.Context, ITool, any))
	SetEndHook(fn func(context.Context, ITool, any, any))
	SetErrorHook(fn func(context.Context, ITool, any, error))
	OnStart(context.Context, ITool, any)
	OnEnd(context.Context, ITool, any, any)
	OnError(context.Context, ITool, any, error)
}

type Tool[I any, O any] interface {
	ITool
	Run(context.Context, *I, *O) error
}

// Invoke validates the input and runs the tool between its hooks.
// The error hook sees validation failures too.
func Invoke[I any, O any](ctx context.Context, tool Tool[I, O], input *I, output *O) error {
	tool.OnStart(ctx, tool, input)
	if err := Validate(input); err != nil {
		tool.OnError(ctx, tool, input, err)
		return err
	}
	if err := tool.Run(ctx, input, output); err != nil {
		tool.OnError(ctx, tool, input, err)
		return err
	}
	tool.OnEnd(ctx, tool, input, output)
	return nil
}
