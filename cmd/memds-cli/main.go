package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/alecthomas/kong"
	"github.com/davecgh/go-spew/spew"

	"github.com/memds/memds/internal/wire"
	"github.com/memds/memds/pkg/memdsclient"
)

// globals carries the flags shared by every subcommand; kong resolves it
// into each command's Run method by type.
type globals struct {
	Addr    string
	Timeout time.Duration
	Debug   bool
}

// root is the kong command tree: one subcommand per operation in §4.2.
type root struct {
	Addr    string        `help:"Server address." default:"127.0.0.1:16900"`
	Timeout time.Duration `help:"Dial timeout." default:"3s"`
	Debug   bool          `help:"Dump the raw result struct instead of formatted output."`

	Get       getCmd       `cmd:"" help:"Fetch a string value."`
	Strlen    strlenCmd    `cmd:"" help:"Report a string's length."`
	Getrange  getrangeCmd  `cmd:"" help:"Fetch a substring by signed range."`
	Set       setCmd       `cmd:"" help:"Set a string value."`
	Append    appendCmd    `cmd:"" help:"Append to a string value."`
	Incr      incrCmd      `cmd:"" help:"Increment a counter by 1."`
	Decr      decrCmd      `cmd:"" help:"Decrement a counter by 1."`
	Incrby    incrbyCmd    `cmd:"" help:"Increment a counter by N."`
	Decrby    decrbyCmd    `cmd:"" help:"Decrement a counter by N."`
	Push      pushCmd      `cmd:"" help:"Push elements onto a list."`
	Pop       popCmd       `cmd:"" help:"Pop an element off a list."`
	Index     indexCmd     `cmd:"" help:"Fetch a list element by signed index."`
	Listinfo  listinfoCmd  `cmd:"" help:"Report a list's length."`
	Sadd      saddCmd      `cmd:"" help:"Add elements to a set."`
	Sdel      sdelCmd      `cmd:"" help:"Remove elements from a set."`
	Sismember sismemberCmd `cmd:"" help:"Test set membership."`
	Smembers  smembersCmd  `cmd:"" help:"List a set's members."`
	Sinfo     sinfoCmd     `cmd:"" help:"Report a set's cardinality."`
	Smove     smoveCmd     `cmd:"" help:"Move a member between sets."`
	Sdiff     sdiffCmd     `cmd:"" help:"Compute the difference of sets."`
	Sunion    sunionCmd    `cmd:"" help:"Compute the union of sets."`
	Sinter    sinterCmd    `cmd:"" help:"Compute the intersection of sets."`
	Del       delCmd       `cmd:"" help:"Delete keys."`
	Exists    existsCmd    `cmd:"" help:"Count existing keys."`
	Rename    renameCmd    `cmd:"" help:"Rename a key."`
	Typ       typCmd       `cmd:"" help:"Report a key's value type."`
	Dump      dumpCmd      `cmd:"" help:"Serialize a key's value."`
	Restore   restoreCmd   `cmd:"" help:"Deserialize a value into a key."`
	Dbsize    dbsizeCmd    `cmd:"" help:"Report the total key count."`
	Flushdb   flushdbCmd   `cmd:"" help:"Remove all keys."`
	Flushall  flushallCmd  `cmd:"" help:"Remove all keys (alias of flushdb)."`
	Time      timeCmd      `cmd:"" help:"Report server time."`
	Bgsave    bgsaveCmd    `cmd:"" help:"Trigger a background snapshot."`
}

func main() {
	var cli root
	ctx := kong.Parse(&cli, kong.Description("memds-cli: command-line client for memds-server"))

	g := &globals{Addr: cli.Addr, Timeout: cli.Timeout, Debug: cli.Debug}
	err := ctx.Run(g)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// dispatch dials the server, runs the single op, and renders its result per
// g.Debug. It is shared by every subcommand's Run method.
func dispatch(g *globals, op wire.Op) error {
	conn, err := memdsclient.Dial(g.Addr, g.Timeout)
	if err != nil {
		return err
	}
	defer conn.Close()

	results, err := conn.Do(op)
	if err != nil {
		return err
	}
	res := results[0]

	if g.Debug {
		spew.Dump(res)
		if !res.OK {
			os.Exit(1)
		}
		return nil
	}

	if !res.OK {
		fmt.Fprintf(os.Stderr, "error %d: %s\n", res.ErrCode, res.ErrMessage)
		os.Exit(1)
	}
	printResult(res)
	return nil
}

func printResult(res wire.OpResult) {
	switch {
	case res.Get != nil:
		if res.Get.HasLength {
			fmt.Println(res.Get.ValueLength)
		} else {
			os.Stdout.Write(res.Get.Value)
			fmt.Println()
		}
	case res.Set != nil:
		if res.Set.HasOldValue {
			os.Stdout.Write(res.Set.OldValue)
			fmt.Println()
		}
	case res.Num != nil:
		fmt.Println(res.Num.OldValue)
	case res.Count != nil:
		fmt.Println(res.Count.N)
	case res.Typ != nil:
		fmt.Println(res.Typ.Type)
	case res.List != nil:
		for _, el := range res.List.Elements {
			os.Stdout.Write(el)
			fmt.Println()
		}
	case res.ListInfo != nil:
		fmt.Println(res.ListInfo.Length)
	case res.SetInfo != nil:
		fmt.Println(res.SetInfo.Length)
	case res.SrvTime != nil:
		fmt.Println(res.SrvTime.Secs)
	}
}

func parseKeys(ss []string) [][]byte {
	out := make([][]byte, len(ss))
	for i, s := range ss {
		out[i] = []byte(s)
	}
	return out
}

func mustInt64(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid integer %q: %v\n", s, err)
		os.Exit(1)
	}
	return n
}

type getCmd struct {
	Key string `arg:""`
}

func (c *getCmd) Run(g *globals) error { return dispatch(g, memdsclient.Get([]byte(c.Key))) }

type strlenCmd struct {
	Key string `arg:""`
}

func (c *strlenCmd) Run(g *globals) error { return dispatch(g, memdsclient.StrLen([]byte(c.Key))) }

type getrangeCmd struct {
	Key   string `arg:""`
	Start string `arg:""`
	End   string `arg:""`
}

func (c *getrangeCmd) Run(g *globals) error {
	return dispatch(g, memdsclient.GetRange([]byte(c.Key), mustInt64(c.Start), mustInt64(c.End)))
}

type setCmd struct {
	Key        string `arg:""`
	Value      string `arg:""`
	CreateExcl bool   `help:"Fail if the key already exists." name:"create-excl"`
	ReturnOld  bool   `help:"Return the previous value, if any." name:"return-old"`
}

func (c *setCmd) Run(g *globals) error {
	return dispatch(g, memdsclient.Set([]byte(c.Key), []byte(c.Value), c.CreateExcl, c.ReturnOld))
}

type appendCmd struct {
	Key       string `arg:""`
	Suffix    string `arg:""`
	ReturnOld bool   `help:"Return the previous value." name:"return-old"`
}

func (c *appendCmd) Run(g *globals) error {
	return dispatch(g, memdsclient.Append([]byte(c.Key), []byte(c.Suffix), c.ReturnOld))
}

type incrCmd struct {
	Key string `arg:""`
}

func (c *incrCmd) Run(g *globals) error { return dispatch(g, memdsclient.Incr([]byte(c.Key))) }

type decrCmd struct {
	Key string `arg:""`
}

func (c *decrCmd) Run(g *globals) error { return dispatch(g, memdsclient.Decr([]byte(c.Key))) }

type incrbyCmd struct {
	Key string `arg:""`
	N   string `arg:""`
}

func (c *incrbyCmd) Run(g *globals) error {
	return dispatch(g, memdsclient.IncrBy([]byte(c.Key), mustInt64(c.N)))
}

type decrbyCmd struct {
	Key string `arg:""`
	N   string `arg:""`
}

func (c *decrbyCmd) Run(g *globals) error {
	return dispatch(g, memdsclient.DecrBy([]byte(c.Key), mustInt64(c.N)))
}

type pushCmd struct {
	Key      string   `arg:""`
	Elements []string `arg:"" name:"element"`
	AtHead   bool     `help:"Push at the head instead of the tail." name:"at-head"`
	IfExists bool     `help:"Only push if the key already exists." name:"if-exists"`
}

func (c *pushCmd) Run(g *globals) error {
	return dispatch(g, memdsclient.Push([]byte(c.Key), parseKeys(c.Elements), c.AtHead, c.IfExists))
}

type popCmd struct {
	Key    string `arg:""`
	AtHead bool   `help:"Pop from the head instead of the tail." name:"at-head"`
}

func (c *popCmd) Run(g *globals) error { return dispatch(g, memdsclient.Pop([]byte(c.Key), c.AtHead)) }

type indexCmd struct {
	Key string `arg:""`
	Idx string `arg:""`
}

func (c *indexCmd) Run(g *globals) error {
	return dispatch(g, memdsclient.Index([]byte(c.Key), mustInt64(c.Idx)))
}

type listinfoCmd struct {
	Key string `arg:""`
}

func (c *listinfoCmd) Run(g *globals) error {
	return dispatch(g, memdsclient.ListInfo([]byte(c.Key)))
}

type saddCmd struct {
	Key      string   `arg:""`
	Elements []string `arg:"" name:"element"`
}

func (c *saddCmd) Run(g *globals) error {
	return dispatch(g, memdsclient.SetAdd([]byte(c.Key), parseKeys(c.Elements)))
}

type sdelCmd struct {
	Key      string   `arg:""`
	Elements []string `arg:"" name:"element"`
}

func (c *sdelCmd) Run(g *globals) error {
	return dispatch(g, memdsclient.SetDel([]byte(c.Key), parseKeys(c.Elements)))
}

type sismemberCmd struct {
	Key      string   `arg:""`
	Elements []string `arg:"" name:"element"`
}

func (c *sismemberCmd) Run(g *globals) error {
	return dispatch(g, memdsclient.SetIsMember([]byte(c.Key), parseKeys(c.Elements)))
}

type smembersCmd struct {
	Key string `arg:""`
}

func (c *smembersCmd) Run(g *globals) error {
	return dispatch(g, memdsclient.SetMembers([]byte(c.Key)))
}

type sinfoCmd struct {
	Key string `arg:""`
}

func (c *sinfoCmd) Run(g *globals) error { return dispatch(g, memdsclient.SetInfo([]byte(c.Key))) }

type smoveCmd struct {
	Src    string `arg:""`
	Dst    string `arg:""`
	Member string `arg:""`
}

func (c *smoveCmd) Run(g *globals) error {
	return dispatch(g, memdsclient.SetMove([]byte(c.Src), []byte(c.Dst), []byte(c.Member)))
}

type sdiffCmd struct {
	Keys     []string `arg:"" name:"key"`
	StoreKey string   `help:"Store the result under this key instead of printing it." name:"store"`
}

func (c *sdiffCmd) Run(g *globals) error {
	return dispatch(g, memdsclient.SetDiff(parseKeys(c.Keys), []byte(c.StoreKey)))
}

type sunionCmd struct {
	Keys     []string `arg:"" name:"key"`
	StoreKey string   `help:"Store the result under this key instead of printing it." name:"store"`
}

func (c *sunionCmd) Run(g *globals) error {
	return dispatch(g, memdsclient.SetUnion(parseKeys(c.Keys), []byte(c.StoreKey)))
}

type sinterCmd struct {
	Keys     []string `arg:"" name:"key"`
	StoreKey string   `help:"Store the result under this key instead of printing it." name:"store"`
}

func (c *sinterCmd) Run(g *globals) error {
	return dispatch(g, memdsclient.SetIntersect(parseKeys(c.Keys), []byte(c.StoreKey)))
}

type delCmd struct {
	Keys []string `arg:"" name:"key"`
}

func (c *delCmd) Run(g *globals) error { return dispatch(g, memdsclient.KeysDel(parseKeys(c.Keys))) }

type existsCmd struct {
	Keys []string `arg:"" name:"key"`
}

func (c *existsCmd) Run(g *globals) error {
	return dispatch(g, memdsclient.KeysExist(parseKeys(c.Keys)))
}

type renameCmd struct {
	OldKey     string `arg:""`
	NewKey     string `arg:""`
	CreateExcl bool   `help:"Fail if the new key already exists." name:"create-excl"`
}

func (c *renameCmd) Run(g *globals) error {
	return dispatch(g, memdsclient.Rename([]byte(c.OldKey), []byte(c.NewKey), c.CreateExcl))
}

type typCmd struct {
	Key string `arg:""`
}

func (c *typCmd) Run(g *globals) error { return dispatch(g, memdsclient.Type([]byte(c.Key))) }

type dumpCmd struct {
	Key string `arg:""`
}

func (c *dumpCmd) Run(g *globals) error { return dispatch(g, memdsclient.Dump([]byte(c.Key))) }

type restoreCmd struct {
	Key   string `arg:""`
	Value string `arg:""`
}

func (c *restoreCmd) Run(g *globals) error {
	return dispatch(g, memdsclient.Restore([]byte(c.Value), []byte(c.Key)))
}

type dbsizeCmd struct{}

func (c *dbsizeCmd) Run(g *globals) error { return dispatch(g, memdsclient.DBSize()) }

type flushdbCmd struct{}

func (c *flushdbCmd) Run(g *globals) error { return dispatch(g, memdsclient.FlushDB()) }

type flushallCmd struct{}

func (c *flushallCmd) Run(g *globals) error { return dispatch(g, memdsclient.FlushAll()) }

type timeCmd struct{}

func (c *timeCmd) Run(g *globals) error { return dispatch(g, memdsclient.Time()) }

type bgsaveCmd struct{}

func (c *bgsaveCmd) Run(g *globals) error { return dispatch(g, memdsclient.BGSave()) }
