package app

import (
	"context"
	"fmt"
	"reflect"

	"go.uber.org/fx"

	"github.com/upb/logbridge/config"
)

// OptionsFactory produces engine options once the graph is available.
type OptionsFactory interface {
	CreateLoggerOptions(ctx context.Context) (*config.Options, error)
}

// AsyncOptions describes where ForRootAsync gets the engine options from.
// Exactly one of UseFactory, UseClass and UseExisting must be set.
type AsyncOptions struct {
	// Imports are added to the module so the factory can depend on them.
	Imports []fx.Option
	// UseFactory is an fx constructor returning *config.Options.
	UseFactory any
	// UseClass is an fx constructor returning an OptionsFactory.
	UseClass any
	// UseExisting uses an OptionsFactory already provided elsewhere.
	UseExisting bool
}

var (
	optionsType        = reflect.TypeOf((**config.Options)(nil)).Elem()
	optionsFactoryType = reflect.TypeOf((*OptionsFactory)(nil)).Elem()
	errorType          = reflect.TypeOf((*error)(nil)).Elem()
)

// ForRootAsync registers an engine whose options are produced inside the fx
// graph. Misconfigured options are reported immediately as a
// *RegistrationError.
func ForRootAsync(async AsyncOptions) (fx.Option, error) {
	if err := async.validate(); err != nil {
		return nil, err
	}
	return fx.Module("logger",
		fx.Options(async.Imports...),
		async.optionsProvider(),
		coreOptions(),
	), nil
}

func (a AsyncOptions) validate() error {
	set := 0
	if a.UseFactory != nil {
		set++
	}
	if a.UseClass != nil {
		set++
	}
	if a.UseExisting {
		set++
	}
	switch {
	case set == 0:
		return ErrMissingOption
	case set > 1:
		return ErrConflictingOptions
	}

	if a.UseFactory != nil {
		return checkConstructor("UseFactory", a.UseFactory, optionsType)
	}
	if a.UseClass != nil {
		return checkConstructor("UseClass", a.UseClass, optionsFactoryType)
	}
	return nil
}

func (a AsyncOptions) optionsProvider() fx.Option {
	fromFactory := fx.Provide(fx.Annotate(optionsFromFactory, fx.ResultTags(optionsTag)))
	switch {
	case a.UseFactory != nil:
		return fx.Provide(fx.Annotate(a.UseFactory, fx.ResultTags(optionsTag)))
	case a.UseClass != nil:
		class := fx.Provide(fx.Annotate(a.UseClass, fx.As(new(OptionsFactory))))
		if reflect.TypeOf(a.UseClass).Out(0) == optionsFactoryType {
			class = fx.Provide(a.UseClass)
		}
		return fx.Options(class, fromFactory)
	default:
		return fromFactory
	}
}

func optionsFromFactory(factory OptionsFactory) (*config.Options, error) {
	opts, err := factory.CreateLoggerOptions(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to create logger options: %w", err)
	}
	return opts, nil
}

// checkConstructor verifies fn is a function returning want, optionally
// followed by an error.
func checkConstructor(field string, fn any, want reflect.Type) error {
	t := reflect.TypeOf(fn)
	if t.Kind() != reflect.Func {
		return NewRegistrationError(ErrorTypeInvalidFactory, fmt.Sprintf("%s must be a function, got %s", field, t), nil)
	}
	if t.NumOut() == 0 || t.NumOut() > 2 || (t.NumOut() == 2 && t.Out(1) != errorType) {
		return NewRegistrationError(ErrorTypeInvalidFactory, fmt.Sprintf("%s must return (%s) or (%s, error)", field, want, want), nil)
	}
	out := t.Out(0)
	if want.Kind() == reflect.Interface && out.Implements(want) {
		return nil
	}
	if out != want {
		return NewRegistrationError(ErrorTypeInvalidFactory, fmt.Sprintf("%s returns %s, want %s", field, out, want), nil)
	}
	return nil
}
