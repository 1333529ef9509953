package executor

import (
	"context"
	"io"
	"strconv"

	"github.com/99designs/gqlgen/graphql"
	"github.com/VitaminP8/hackernews/graph/model"
	"github.com/vektah/gqlparser/v2/ast"
)

var (
	queryImplementors        = []string{"Query"}
	mutationImplementors     = []string{"Mutation"}
	subscriptionImplementors = []string{"Subscription"}
)

func (ec *executionContext) _Query(ctx context.Context, sel ast.SelectionSet) graphql.Marshaler {
	fields := graphql.CollectFields(ec.OperationContext, sel, queryImplementors)
	ctx = graphql.WithFieldContext(ctx, &graphql.FieldContext{Object: "Query"})

	out := graphql.NewFieldSet(fields)
	invalids := 0
	for i, field := range fields {
		switch field.Name {
		case "__typename":
			out.Values[i] = graphql.MarshalString("Query")
		case "__schema", "__type":
			out.Values[i] = introspectionDisabled(ctx, field)
		case "hello":
			out.Values[i] = ec._Query_hello(ctx, field)
		case "feed":
			out.Values[i] = ec._Query_feed(ctx, field)
		case "comment":
			out.Values[i] = ec._Query_comment(ctx, field)
		case "link":
			out.Values[i] = ec._Query_link(ctx, field)
		case "me":
			out.Values[i] = ec._Query_me(ctx, field)
		default:
			panic("unknown field " + strconv.Quote(field.Name))
		}
		if out.Values[i] == graphql.Null && nonNull(field) {
			invalids++
		}
	}
	if invalids > 0 {
		return graphql.Null
	}
	return out
}

func introspectionDisabled(ctx context.Context, field graphql.CollectedField) graphql.Marshaler {
	ctx = graphql.WithFieldContext(ctx, &graphql.FieldContext{Object: "Query", Field: field})
	graphql.AddErrorf(ctx, "introspection disabled")
	return graphql.Null
}

func (ec *executionContext) _Query_hello(ctx context.Context, field graphql.CollectedField) graphql.Marshaler {
	return resolve(ctx, ec, resolverContext("Query", field, nil),
		func(ctx context.Context) (string, error) {
			return ec.resolvers.Query().Hello(ctx)
		},
		func(ctx context.Context, v string) graphql.Marshaler {
			return graphql.MarshalString(v)
		})
}

func (ec *executionContext) _Query_feed(ctx context.Context, field graphql.CollectedField) graphql.Marshaler {
	rawArgs := field.ArgumentMap(ec.Variables)
	return resolve(ctx, ec, resolverContext("Query", field, rawArgs),
		func(ctx context.Context) ([]*model.Link, error) {
			args, err := feedArgs(rawArgs)
			if err != nil {
				return nil, err
			}
			return ec.resolvers.Query().Feed(ctx, args)
		},
		func(ctx context.Context, v []*model.Link) graphql.Marshaler {
			return ec.marshalLinkList(ctx, field.Selections, v)
		})
}

func (ec *executionContext) _Query_comment(ctx context.Context, field graphql.CollectedField) graphql.Marshaler {
	rawArgs := field.ArgumentMap(ec.Variables)
	return resolve(ctx, ec, resolverContext("Query", field, rawArgs),
		func(ctx context.Context) (*model.Comment, error) {
			id, err := argID(rawArgs, "id")
			if err != nil {
				return nil, err
			}
			return ec.resolvers.Query().Comment(ctx, id)
		},
		func(ctx context.Context, v *model.Comment) graphql.Marshaler {
			if v == nil {
				return graphql.Null
			}
			return ec._Comment(ctx, field.Selections, v)
		})
}

func (ec *executionContext) _Query_link(ctx context.Context, field graphql.CollectedField) graphql.Marshaler {
	rawArgs := field.ArgumentMap(ec.Variables)
	return resolve(ctx, ec, resolverContext("Query", field, rawArgs),
		func(ctx context.Context) (*model.Link, error) {
			id, err := argID(rawArgs, "id")
			if err != nil {
				return nil, err
			}
			return ec.resolvers.Query().Link(ctx, id)
		},
		func(ctx context.Context, v *model.Link) graphql.Marshaler {
			if v == nil {
				return graphql.Null
			}
			return ec._Link(ctx, field.Selections, v)
		})
}

func (ec *executionContext) _Query_me(ctx context.Context, field graphql.CollectedField) graphql.Marshaler {
	return resolve(ctx, ec, resolverContext("Query", field, nil),
		func(ctx context.Context) (*model.User, error) {
			return ec.resolvers.Query().Me(ctx)
		},
		func(ctx context.Context, v *model.User) graphql.Marshaler {
			return ec.marshalNUser(ctx, field.Selections, v)
		})
}

// Mutation fields run one after another, in selection order.
func (ec *executionContext) _Mutation(ctx context.Context, sel ast.SelectionSet) graphql.Marshaler {
	fields := graphql.CollectFields(ec.OperationContext, sel, mutationImplementors)
	ctx = graphql.WithFieldContext(ctx, &graphql.FieldContext{Object: "Mutation"})

	out := graphql.NewFieldSet(fields)
	invalids := 0
	for i, field := range fields {
		switch field.Name {
		case "__typename":
			out.Values[i] = graphql.MarshalString("Mutation")
		case "postLink":
			out.Values[i] = ec._Mutation_postLink(ctx, field)
		case "postCommentOnLink":
			out.Values[i] = ec._Mutation_postCommentOnLink(ctx, field)
		case "signup":
			out.Values[i] = ec._Mutation_signup(ctx, field)
		case "login":
			out.Values[i] = ec._Mutation_login(ctx, field)
		default:
			panic("unknown field " + strconv.Quote(field.Name))
		}
		if out.Values[i] == graphql.Null && nonNull(field) {
			invalids++
		}
	}
	if invalids > 0 {
		return graphql.Null
	}
	return out
}

func (ec *executionContext) _Mutation_postLink(ctx context.Context, field graphql.CollectedField) graphql.Marshaler {
	rawArgs := field.ArgumentMap(ec.Variables)
	return resolve(ctx, ec, resolverContext("Mutation", field, rawArgs),
		func(ctx context.Context) (*model.Link, error) {
			input, err := postLinkArgs(rawArgs)
			if err != nil {
				return nil, err
			}
			return ec.resolvers.Mutation().PostLink(ctx, input)
		},
		func(ctx context.Context, v *model.Link) graphql.Marshaler {
			return ec.marshalNLink(ctx, field.Selections, v)
		})
}

func (ec *executionContext) _Mutation_postCommentOnLink(ctx context.Context, field graphql.CollectedField) graphql.Marshaler {
	rawArgs := field.ArgumentMap(ec.Variables)
	return resolve(ctx, ec, resolverContext("Mutation", field, rawArgs),
		func(ctx context.Context) (*model.Comment, error) {
			input, err := postCommentArgs(rawArgs)
			if err != nil {
				return nil, err
			}
			return ec.resolvers.Mutation().PostCommentOnLink(ctx, input)
		},
		func(ctx context.Context, v *model.Comment) graphql.Marshaler {
			return ec.marshalNComment(ctx, field.Selections, v)
		})
}

func (ec *executionContext) _Mutation_signup(ctx context.Context, field graphql.CollectedField) graphql.Marshaler {
	rawArgs := field.ArgumentMap(ec.Variables)
	return resolve(ctx, ec, resolverContext("Mutation", field, rawArgs),
		func(ctx context.Context) (*model.AuthPayload, error) {
			input, err := signupArgs(rawArgs)
			if err != nil {
				return nil, err
			}
			return ec.resolvers.Mutation().Signup(ctx, input)
		},
		func(ctx context.Context, v *model.AuthPayload) graphql.Marshaler {
			return ec.marshalNAuthPayload(ctx, field.Selections, v)
		})
}

func (ec *executionContext) _Mutation_login(ctx context.Context, field graphql.CollectedField) graphql.Marshaler {
	rawArgs := field.ArgumentMap(ec.Variables)
	return resolve(ctx, ec, resolverContext("Mutation", field, rawArgs),
		func(ctx context.Context) (*model.AuthPayload, error) {
			input, err := loginArgs(rawArgs)
			if err != nil {
				return nil, err
			}
			return ec.resolvers.Mutation().Login(ctx, input)
		},
		func(ctx context.Context, v *model.AuthPayload) graphql.Marshaler {
			return ec.marshalNAuthPayload(ctx, field.Selections, v)
		})
}

// _Subscription starts the selected stream. The returned function yields one
// payload per event and nil once the stream ends.
func (ec *executionContext) _Subscription(ctx context.Context, sel ast.SelectionSet) func(ctx context.Context) graphql.Marshaler {
	fields := graphql.CollectFields(ec.OperationContext, sel, subscriptionImplementors)
	ctx = graphql.WithFieldContext(ctx, &graphql.FieldContext{Object: "Subscription"})

	if len(fields) != 1 {
		graphql.AddErrorf(ctx, "must subscribe to exactly one stream")
		return nil
	}

	switch fields[0].Name {
	case "newLink":
		return ec._Subscription_newLink(ctx, fields[0])
	default:
		graphql.AddErrorf(ctx, "unknown subscription %s", strconv.Quote(fields[0].Name))
		return nil
	}
}

func (ec *executionContext) _Subscription_newLink(ctx context.Context, field graphql.CollectedField) (ret func(ctx context.Context) graphql.Marshaler) {
	fc := resolverContext("Subscription", field, nil)
	ctx = graphql.WithFieldContext(ctx, fc)
	defer func() {
		if r := recover(); r != nil {
			graphql.AddError(ctx, ec.Recover(ctx, r))
			ret = nil
		}
	}()

	events, err := ec.resolvers.Subscription().NewLink(ctx)
	if err != nil {
		graphql.AddError(ctx, err)
		return nil
	}
	if events == nil {
		graphql.AddErrorf(ctx, "must not be null")
		return nil
	}

	return func(ctx context.Context) graphql.Marshaler {
		select {
		case link, ok := <-events:
			if !ok {
				return nil
			}
			ctx = graphql.WithFieldContext(ctx, resolverContext("Subscription", field, nil))
			value := ec.marshalNLink(ctx, field.Selections, link)
			return graphql.WriterFunc(func(w io.Writer) {
				w.Write([]byte{'{'})
				graphql.MarshalString(field.Alias).MarshalGQL(w)
				w.Write([]byte{':'})
				value.MarshalGQL(w)
				w.Write([]byte{'}'})
			})
		case <-ctx.Done():
			return nil
		}
	}
}
