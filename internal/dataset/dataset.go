// Package dataset loads users, products and orders from a YAML document.
//
// Entities reference each other by dataset IDs. IDs exist only in the
// document; the domain entities themselves compare by value.
package dataset

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/xenking/order-reports/data"
	"github.com/xenking/order-reports/internal/domain/order"
	"github.com/xenking/order-reports/internal/domain/product"
	"github.com/xenking/order-reports/internal/domain/user"
)

// Sentinel errors wrapped by *Error.
var (
	ErrDuplicateID      = errors.New("duplicate id")
	ErrUnknownReference = errors.New("unknown reference")
	ErrInvalidValue     = errors.New("invalid value")
)

// Error describes a problem at a location in the dataset document.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Dataset holds the entities built from a document, in document order.
type Dataset struct {
	Users     []user.User
	Products  []product.Product
	Orders    []order.Order
	UsedCodes []string

	productByID map[string]product.Product
}

// Product returns the product declared with the given dataset ID.
func (d *Dataset) Product(id string) (product.Product, bool) {
	p, ok := d.productByID[id]
	return p, ok
}

type document struct {
	Users     []userDoc    `yaml:"users"`
	Products  []productDoc `yaml:"products"`
	Orders    []orderDoc   `yaml:"orders"`
	UsedCodes []string     `yaml:"used_codes"`
}

type userDoc struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Age  int    `yaml:"age"`
}

type productDoc struct {
	ID        string `yaml:"id"`
	Kind      string `yaml:"kind"`
	Name      string `yaml:"name"`
	Price     string `yaml:"price"`
	Size      string `yaml:"size"`
	Weight    string `yaml:"weight"`
	Code      string `yaml:"code"`
	ExpiresOn string `yaml:"expires_on"`
}

type orderDoc struct {
	User     string   `yaml:"user"`
	Products []string `yaml:"products"`
}

// Default returns the built-in dataset.
func Default() (*Dataset, error) {
	ds, err := Parse(bytes.NewReader(data.Fixture))
	if err != nil {
		return nil, errors.Wrap(err, "parse built-in dataset")
	}
	return ds, nil
}

// LoadFile reads a dataset from path. Files ending in .gz are decompressed.
func LoadFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrapf(err, "create gzip reader for %s", path)
		}
		defer func() { _ = gz.Close() }()
		r = gz
	}

	ds, err := Parse(r)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	return ds, nil
}

// Parse decodes a YAML dataset and builds its entities.
func Parse(r io.Reader) (*Dataset, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "decode yaml")
	}
	return build(doc)
}

func build(doc document) (*Dataset, error) {
	ds := &Dataset{
		Users:       make([]user.User, 0, len(doc.Users)),
		Products:    make([]product.Product, 0, len(doc.Products)),
		Orders:      make([]order.Order, 0, len(doc.Orders)),
		UsedCodes:   doc.UsedCodes,
		productByID: make(map[string]product.Product, len(doc.Products)),
	}

	users := make(map[string]user.User, len(doc.Users))
	for i, u := range doc.Users {
		path := fmt.Sprintf("users[%d]", i)
		if _, ok := users[u.ID]; ok {
			return nil, &Error{Path: path + ".id", Err: errors.Wrapf(ErrDuplicateID, "%q", u.ID)}
		}
		if u.Age < 0 {
			return nil, &Error{Path: path + ".age", Err: errors.Wrapf(ErrInvalidValue, "negative age %d", u.Age)}
		}
		usr := user.New(u.Name, u.Age)
		users[u.ID] = usr
		ds.Users = append(ds.Users, usr)
	}

	for i, p := range doc.Products {
		path := fmt.Sprintf("products[%d]", i)
		if _, ok := ds.productByID[p.ID]; ok {
			return nil, &Error{Path: path + ".id", Err: errors.Wrapf(ErrDuplicateID, "%q", p.ID)}
		}
		prod, err := buildProduct(path, p)
		if err != nil {
			return nil, err
		}
		ds.productByID[p.ID] = prod
		ds.Products = append(ds.Products, prod)
	}

	for i, o := range doc.Orders {
		path := fmt.Sprintf("orders[%d]", i)
		usr, ok := users[o.User]
		if !ok {
			return nil, &Error{Path: path + ".user", Err: errors.Wrapf(ErrUnknownReference, "user %q", o.User)}
		}
		items := make([]product.Product, len(o.Products))
		for j, id := range o.Products {
			p, ok := ds.productByID[id]
			if !ok {
				return nil, &Error{
					Path: fmt.Sprintf("%s.products[%d]", path, j),
					Err:  errors.Wrapf(ErrUnknownReference, "product %q", id),
				}
			}
			items[j] = p
		}
		ds.Orders = append(ds.Orders, order.New(usr, items))
	}

	return ds, nil
}

func buildProduct(path string, p productDoc) (product.Product, error) {
	price, err := parseDecimal(path+".price", p.Price)
	if err != nil {
		return nil, err
	}
	if price.IsNegative() {
		return nil, &Error{Path: path + ".price", Err: errors.Wrapf(ErrInvalidValue, "negative price %s", price)}
	}

	switch p.Kind {
	case product.KindReal.String():
		size, err := parseDecimal(path+".size", p.Size)
		if err != nil {
			return nil, err
		}
		weight, err := parseDecimal(path+".weight", p.Weight)
		if err != nil {
			return nil, err
		}
		return product.NewReal(p.Name, price, size, weight), nil
	case product.KindVirtual.String():
		if p.Code == "" {
			return nil, &Error{Path: path + ".code", Err: errors.Wrap(ErrInvalidValue, "code required")}
		}
		expires, err := time.Parse(time.DateOnly, p.ExpiresOn)
		if err != nil {
			return nil, &Error{Path: path + ".expires_on", Err: errors.Wrapf(ErrInvalidValue, "date %q", p.ExpiresOn)}
		}
		return product.NewVirtual(p.Name, price, p.Code, expires), nil
	default:
		return nil, &Error{Path: path + ".kind", Err: errors.Wrapf(ErrInvalidValue, "unsupported kind %q", p.Kind)}
	}
}

func parseDecimal(path, v string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, &Error{Path: path, Err: errors.Wrapf(ErrInvalidValue, "decimal %q", v)}
	}
	return d, nil
}
