package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/corey/siunit/internal/adapters/bbolt"
	"github.com/corey/siunit/internal/app"
	"github.com/corey/siunit/internal/domain/quantity"
	"github.com/corey/siunit/internal/ports"
	"github.com/spf13/cobra"
)

var (
	storeKind  string
	storeUnit  string
	storeForce bool
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Keep named quantities",
	Long: "Stores scalars, vectors and integer parameters in named sets (.siunit/quantities.db by default).\n" +
		"The store is bound to the unit table it was written with.",
}

var storePutCmd = &cobra.Command{
	Use:   "put <set> <name> <value...>",
	Short: "Store a quantity",
	Long: "Stores a quantity under set/name, replacing any previous value, e.g.\n" +
		"  siunit store put wall Thickness 20 mm\n" +
		"  siunit store put wall Grid 0 5 10 cm --kind vector\n" +
		"  siunit store put wall Layers 3 --kind int\n" +
		"Negative values must follow '--' so they are not read as flags:\n" +
		"  siunit store put --kind vector -- wall Offsets -5 0 5 mm",
	Args: cobra.MinimumNArgs(3),
	RunE: runStorePut,
}

var storeGetCmd = &cobra.Command{
	Use:   "get <set> <name>",
	Short: "Print a stored quantity",
	Args:  cobra.ExactArgs(2),
	RunE:  runStoreGet,
}

var storeListCmd = &cobra.Command{
	Use:   "list [set]",
	Short: "List stored quantities",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStoreList,
}

var storeRmCmd = &cobra.Command{
	Use:   "rm <set> [name]",
	Short: "Remove a quantity, or a whole set",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runStoreRm,
}

var storeResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Drop all stored quantities and bind the store to the active unit table",
	Args:  cobra.NoArgs,
	RunE:  runStoreReset,
}

func init() {
	storePutCmd.Flags().StringVar(&storeKind, "kind", "scalar", "Quantity kind: scalar, vector or int")
	storeGetCmd.Flags().StringVar(&storeUnit, "unit", "", "Print a scalar or vector in this unit")
	storeResetCmd.Flags().BoolVar(&storeForce, "force", false, "Skip confirmation prompt")

	storeCmd.AddCommand(storePutCmd)
	storeCmd.AddCommand(storeGetCmd)
	storeCmd.AddCommand(storeListCmd)
	storeCmd.AddCommand(storeRmCmd)
	storeCmd.AddCommand(storeResetCmd)
}

// openStore opens the configured store for the active registry.
func openStore(rebind bool) (*bbolt.Store, error) {
	path := rt.cfg.Store.Path
	store, err := app.OpenStore(path, rt.holder.Get(), rebind)
	if err != nil {
		return nil, storeError(path, err)
	}
	return store, nil
}

func runStorePut(cmd *cobra.Command, args []string) error {
	set, name, text := args[0], args[1], strings.Join(args[2:], " ")
	reg := rt.holder.Get()

	store, err := openStore(false)
	if err != nil {
		return err
	}
	defer store.Close()

	switch storeKind {
	case ports.KindScalar.String():
		var q quantity.Scalar
		if err := q.SetString(reg, name, text); err != nil {
			return err
		}
		err = store.PutScalar(set, q)
	case ports.KindVector.String():
		v := quantity.Vector{Name: name}
		if err := v.Read(reg, text, true); err != nil {
			return err
		}
		err = store.PutVector(set, v)
	case ports.KindInt.String():
		p := quantity.IntPara{Name: name}
		if err := p.Read(text, true); err != nil {
			return err
		}
		err = store.PutInt(set, p)
	default:
		return fmt.Errorf("unknown kind %q (want scalar, vector or int)", storeKind)
	}
	if err != nil {
		return err
	}
	rt.logger.Debug().Str("set", set).Str("name", name).Str("kind", storeKind).Msg("stored")
	return nil
}

func runStoreGet(cmd *cobra.Command, args []string) error {
	set, name := args[0], args[1]
	reg := rt.holder.Get()

	store, err := openStore(false)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(set)
	if err != nil {
		return err
	}
	kind := ports.Kind(0)
	for _, e := range entries {
		if e.Name == name {
			kind = e.Kind
			break
		}
	}

	out := cmd.OutOrStdout()
	switch kind {
	case ports.KindScalar:
		q, err := store.GetScalar(set, name)
		if err != nil {
			return err
		}
		u := q.IOUnit
		if storeUnit != "" {
			if u, err = reg.Unit(storeUnit); err != nil {
				return err
			}
		}
		s, err := q.FormatIn(reg, u, true)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, s)
	case ports.KindVector:
		v, err := store.GetVector(set, name)
		if err != nil {
			return err
		}
		if storeUnit != "" {
			u, err := reg.Unit(storeUnit)
			if err != nil {
				return err
			}
			if err := v.SetIOUnit(reg, u); err != nil {
				return err
			}
		}
		s, err := v.Format(reg, true)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s = %s\n", v.Name, s)
	case ports.KindInt:
		p, err := store.GetInt(set, name)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, p.Format(true))
	default:
		return fmt.Errorf("%w: %s/%s", bbolt.ErrNotFound, set, name)
	}
	return nil
}

func runStoreList(cmd *cobra.Command, args []string) error {
	set := ""
	if len(args) == 1 {
		set = args[0]
	}
	store, err := openStore(false)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(set)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, e := range entries {
		fmt.Fprintf(out, "%-30s %s\n", e.Set+"/"+e.Name, paint(out, colorGray, e.Kind.String()))
	}
	return nil
}

func runStoreRm(cmd *cobra.Command, args []string) error {
	store, err := openStore(false)
	if err != nil {
		return err
	}
	defer store.Close()

	if len(args) == 1 {
		return store.DeleteSet(args[0])
	}
	return store.Delete(args[0], args[1])
}

func runStoreReset(cmd *cobra.Command, args []string) error {
	if !storeForce {
		fmt.Fprintf(cmd.OutOrStdout(), "This will drop all stored quantities in %s. Continue? [y/N] ", rt.cfg.Store.Path)
		reader := bufio.NewReader(cmd.InOrStdin())
		answer, _ := reader.ReadString('\n')
		answer = strings.TrimSpace(strings.ToLower(answer))
		if answer != "y" && answer != "yes" {
			fmt.Fprintln(cmd.OutOrStdout(), "cancelled")
			return nil
		}
	}

	if _, err := os.Stat(rt.cfg.Store.Path); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(cmd.OutOrStdout(), "no data to reset")
		return nil
	}

	store, err := openStore(true)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Rebind(rt.holder.Get().Fingerprint()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "store reset")
	return nil
}
