package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
	"github.com/storefront-dev/storefront/internal/client"
)

func newCartCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage the shopping cart",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd.Context(), func(c *client.Client, out *json.RawMessage) error {
				return c.Cart.Get(cmd.Context(), out)
			})
		},
	}

	var quantity int
	add := &cobra.Command{
		Use:   "add PRODUCT_ID",
		Short: "Add a product to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd.Context(), func(c *client.Client, out *json.RawMessage) error {
				return c.Cart.Add(cmd.Context(), args[0], quantity, out)
			})
		},
	}
	add.Flags().IntVarP(&quantity, "quantity", "q", 1, "quantity to add")

	remove := &cobra.Command{
		Use:   "remove ITEM_ID",
		Short: "Remove a line from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd.Context(), func(c *client.Client, out *json.RawMessage) error {
				return c.Cart.Remove(cmd.Context(), args[0], out)
			})
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd.Context(), func(c *client.Client, out *json.RawMessage) error {
				return c.Cart.Clear(cmd.Context(), out)
			})
		},
	}

	cmd.AddCommand(show, add, remove, clearCmd)
	return cmd
}

func newWishlistCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wishlist",
		Short: "Manage the wishlist",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the wishlist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd.Context(), func(c *client.Client, out *json.RawMessage) error {
				return c.Wishlist.Get(cmd.Context(), out)
			})
		},
	}

	add := &cobra.Command{
		Use:   "add PRODUCT_ID",
		Short: "Add a product to the wishlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd.Context(), func(c *client.Client, out *json.RawMessage) error {
				return c.Wishlist.Add(cmd.Context(), args[0], out)
			})
		},
	}

	remove := &cobra.Command{
		Use:   "remove PRODUCT_ID",
		Short: "Remove a product from the wishlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd.Context(), func(c *client.Client, out *json.RawMessage) error {
				return c.Wishlist.Remove(cmd.Context(), args[0], out)
			})
		},
	}

	cmd.AddCommand(show, add, remove)
	return cmd
}

func newOrdersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Place and view orders",
	}

	var (
		paging pageFlags
		status string
	)
	mine := &cobra.Command{
		Use:   "mine",
		Short: "List your orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params := paging.params(cmd)
			if status != "" {
				params["status"] = status
			}
			return a.call(cmd.Context(), func(c *client.Client, out *json.RawMessage) error {
				return c.Orders.Mine(cmd.Context(), params, out)
			})
		},
	}
	paging.register(mine)
	mine.Flags().StringVar(&status, "status", "", "only orders with this status")

	get := &cobra.Command{
		Use:   "get ID",
		Short: "Show one order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd.Context(), func(c *client.Client, out *json.RawMessage) error {
				return c.Orders.Get(cmd.Context(), args[0], out)
			})
		},
	}

	var address string
	place := &cobra.Command{
		Use:   "place",
		Short: "Order the contents of the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd.Context(), func(c *client.Client, out *json.RawMessage) error {
				return c.Orders.Create(cmd.Context(), map[string]string{"shippingAddress": address}, out)
			})
		},
	}
	place.Flags().StringVar(&address, "address", "", "shipping address")
	_ = place.MarkFlagRequired("address")

	cmd.AddCommand(mine, get, place)
	return cmd
}
