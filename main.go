package main

import (
	"context"
	"flag"
	"fmt"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/MixinNetwork/nfr/registry"
	"github.com/MixinNetwork/nfr/store"
)

func main() {
	ctx := context.Background()

	bp := flag.String("d", "~/.nfr/data", "database directory path")
	cp := flag.String("c", "~/.nfr/config.toml", "configuration file path")
	caller := flag.String("u", "", "caller account")
	flag.Parse()

	if strings.HasPrefix(*cp, "~/") {
		usr, _ := user.Current()
		*cp = filepath.Join(usr.HomeDir, (*cp)[2:])
	}
	conf, err := registry.Setup(*cp)
	if err != nil {
		panic(err)
	}

	if strings.HasPrefix(*bp, "~/") {
		usr, _ := user.Current()
		*bp = filepath.Join(usr.HomeDir, (*bp)[2:])
	}
	db, err := store.OpenBadger(ctx, *bp)
	if err != nil {
		panic(err)
	}
	defer db.Close()

	reg, err := registry.BuildRegistry(db, conf)
	if err != nil {
		panic(err)
	}

	if *caller == "" {
		*caller = conf.Registry.Owner
	}
	err = runCommand(reg, *caller, flag.Args())
	if err != nil {
		panic(err)
	}
}

func runCommand(reg *registry.Registry, caller string, args []string) error {
	if len(args) == 0 {
		return printInfo(reg)
	}
	switch args[0] {
	case "info":
		return printInfo(reg)
	case "mint":
		attrs, err := parseAttributes(args[1:])
		if err != nil {
			return err
		}
		if len(attrs) == 0 {
			return printEvents(reg.Mint(caller))
		}
		return printEvents(reg.MintWithAttributes(caller, attrs))
	case "transfer":
		if len(args) < 3 {
			return fmt.Errorf("usage: transfer <to> <id> [payload]")
		}
		id, err := registry.ParseId(args[2])
		if err != nil {
			return err
		}
		var payload []byte
		if len(args) > 3 {
			payload = []byte(args[3])
		}
		return printEvents(reg.Transfer(caller, args[1], id, payload))
	case "approve":
		if len(args) < 4 {
			return fmt.Errorf("usage: approve <operator> <id|all> <true|false>")
		}
		var id *registry.Id
		if args[2] != "all" {
			parsed, err := registry.ParseId(args[2])
			if err != nil {
				return err
			}
			id = &parsed
		}
		approved, err := strconv.ParseBool(args[3])
		if err != nil {
			return err
		}
		return printEvents(reg.Approve(caller, args[1], id, approved))
	case "burn":
		if len(args) < 3 {
			return fmt.Errorf("usage: burn <owner> <id>")
		}
		id, err := registry.ParseId(args[2])
		if err != nil {
			return err
		}
		return printEvents(reg.Burn(caller, args[1], id))
	case "lock":
		if len(args) < 2 {
			return fmt.Errorf("usage: lock <id>")
		}
		id, err := registry.ParseId(args[1])
		if err != nil {
			return err
		}
		return reg.Lock(caller, id)
	case "set-base-uri":
		if len(args) < 2 {
			return fmt.Errorf("usage: set-base-uri <uri>")
		}
		return printEvents(reg.SetBaseURI(caller, args[1]))
	case "set-attrs":
		if len(args) < 3 {
			return fmt.Errorf("usage: set-attrs <id> <key=value>...")
		}
		id, err := registry.ParseId(args[1])
		if err != nil {
			return err
		}
		attrs, err := parseAttributes(args[2:])
		if err != nil {
			return err
		}
		return printEvents(reg.SetMultipleAttributes(caller, id, attrs))
	case "attrs":
		if len(args) < 3 {
			return fmt.Errorf("usage: attrs <id> <name>...")
		}
		id, err := registry.ParseId(args[1])
		if err != nil {
			return err
		}
		values, err := reg.GetAttributes(id, args[2:])
		if err != nil {
			return err
		}
		for i, name := range args[2:] {
			fmt.Printf("%s=%s\n", name, values[i])
		}
		return nil
	case "attr-names":
		count, err := reg.GetAttributeCount()
		if err != nil {
			return err
		}
		for i := uint32(1); i <= count; i++ {
			name, err := reg.GetAttributeName(i)
			if err != nil {
				return err
			}
			fmt.Printf("%d %s\n", i, name)
		}
		return nil
	case "token-uri":
		if len(args) < 2 {
			return fmt.Errorf("usage: token-uri <token>")
		}
		token, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return err
		}
		uri, err := reg.TokenURI(token)
		if err != nil {
			return err
		}
		fmt.Println(uri)
		return nil
	case "tokens":
		supply, err := reg.TotalSupply()
		if err != nil {
			return err
		}
		for i := uint64(0); i < supply; i++ {
			id, err := reg.TokenByIndex(i)
			if err != nil {
				return err
			}
			owner, err := reg.OwnerOf(id)
			if err != nil {
				return err
			}
			fmt.Printf("%d %s %s\n", i, id, owner)
		}
		return nil
	case "owner-tokens":
		if len(args) < 2 {
			return fmt.Errorf("usage: owner-tokens <owner>")
		}
		balance, err := reg.BalanceOf(args[1])
		if err != nil {
			return err
		}
		for i := uint64(0); i < balance; i++ {
			id, err := reg.OwnersTokenByIndex(args[1], i)
			if err != nil {
				return err
			}
			fmt.Printf("%d %s\n", i, id)
		}
		return nil
	case "events":
		limit := 100
		if len(args) > 1 {
			parsed, err := strconv.Atoi(args[1])
			if err != nil {
				return err
			}
			limit = parsed
		}
		events, err := reg.ListEvents(limit)
		if err != nil {
			return err
		}
		for _, ev := range events {
			fmt.Println(ev)
		}
		return nil
	case "transfer-ownership":
		if len(args) < 2 {
			return fmt.Errorf("usage: transfer-ownership <new-owner>")
		}
		return printEvents(reg.TransferContractOwnership(caller, args[1]))
	case "renounce-ownership":
		return printEvents(reg.RenounceContractOwnership(caller))
	}
	return fmt.Errorf("unknown command %s", args[0])
}

func printInfo(reg *registry.Registry) error {
	names, err := reg.GetAttributes(registry.CollectionToken(), []string{"name", "symbol", "baseURI"})
	if err != nil {
		return err
	}
	owner, err := reg.ContractOwner()
	if err != nil {
		return err
	}
	supply, err := reg.TotalSupply()
	if err != nil {
		return err
	}
	last, err := reg.GetLastTokenId()
	if err != nil {
		return err
	}
	locked, err := reg.GetLockedTokenCount()
	if err != nil {
		return err
	}
	fmt.Printf("collection %s\n", reg.CollectionId())
	fmt.Printf("name %s symbol %s baseURI %s\n", names[0], names[1], names[2])
	fmt.Printf("owner %s\n", owner)
	fmt.Printf("supply %d last %d locked %d\n", supply, last, locked)
	return nil
}

func printEvents(events []*registry.Event, err error) error {
	if err != nil {
		return err
	}
	for _, ev := range events {
		fmt.Println(ev)
	}
	return nil
}

func parseAttributes(args []string) ([]registry.Attribute, error) {
	var attrs []registry.Attribute
	for _, arg := range args {
		key, value, found := strings.Cut(arg, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid attribute %s", arg)
		}
		attrs = append(attrs, registry.Attribute{
			Key:   []byte(key),
			Value: []byte(value),
		})
	}
	return attrs, nil
}
