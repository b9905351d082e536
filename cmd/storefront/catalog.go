package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
	"github.com/storefront-dev/storefront/internal/client"
)

// pageFlags are the paging and filtering flags shared by list commands.
// Flags left unset are sent as nil and so dropped from the query string.
type pageFlags struct {
	page  int
	limit int
	sort  string
}

func (p *pageFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&p.page, "page", 1, "page number")
	cmd.Flags().IntVar(&p.limit, "limit", 20, "results per page")
	cmd.Flags().StringVar(&p.sort, "sort", "", "sort order, e.g. price or -createdAt")
}

func (p *pageFlags) params(cmd *cobra.Command) client.Params {
	params := client.Params{"page": nil, "limit": nil, "sort": nil}
	if cmd.Flags().Changed("page") {
		params["page"] = p.page
	}
	if cmd.Flags().Changed("limit") {
		params["limit"] = p.limit
	}
	if p.sort != "" {
		params["sort"] = p.sort
	}
	return params
}

func newProductsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Browse products",
	}

	var (
		listPaging pageFlags
		category   string
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params := listPaging.params(cmd)
			if category != "" {
				params["category"] = category
			}
			return a.call(cmd.Context(), func(c *client.Client, out *json.RawMessage) error {
				return c.Products.List(cmd.Context(), params, out)
			})
		},
	}
	listPaging.register(list)
	list.Flags().StringVarP(&category, "category", "c", "", "category slug")

	get := &cobra.Command{
		Use:   "get ID",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd.Context(), func(c *client.Client, out *json.RawMessage) error {
				return c.Products.Get(cmd.Context(), args[0], out)
			})
		},
	}

	var searchPaging pageFlags
	search := &cobra.Command{
		Use:   "search QUERY",
		Short: "Full text product search",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd.Context(), func(c *client.Client, out *json.RawMessage) error {
				return c.Products.Search(cmd.Context(), args[0], searchPaging.params(cmd), out)
			})
		},
	}
	searchPaging.register(search)

	cmd.AddCommand(list, get, search)
	return cmd
}

func newCategoriesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Browse categories",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd.Context(), func(c *client.Client, out *json.RawMessage) error {
				return c.Categories.List(cmd.Context(), nil, out)
			})
		},
	}

	slug := &cobra.Command{
		Use:   "slug SLUG",
		Short: "Look a category up by slug",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd.Context(), func(c *client.Client, out *json.RawMessage) error {
				return c.Categories.BySlug(cmd.Context(), args[0], out)
			})
		},
	}

	cmd.AddCommand(list, slug)
	return cmd
}
