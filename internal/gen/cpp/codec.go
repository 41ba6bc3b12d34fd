package cpp

import (
	"github.com/koskimas/schemagen/internal/model"
)

func genRecordCodec(s *stringBuilder, typ *model.Type) {
	name := ident(typ.Name)
	members := typ.Members()

	s.Open("inline void to_json(%s &j, const %s &u) {", idJSON, name)
	s.Line("j = %s::object();", idJSON)
	if len(members) == 0 {
		s.Line("(void)u;")
	}
	for _, f := range members {
		s.Line("j[%s] = u.%s;", quote(f.Name), ident(f.Name))
	}
	s.Close("}")
	s.WriteNewLine()

	s.Open("inline void from_json(const %s &j, %s &u) {", idJSON, name)
	if len(members) == 0 {
		s.Line("(void)j;")
		s.Line("(void)u;")
	}
	for _, f := range members {
		key := quote(f.Name)
		s.Open("if (!j.contains(%s)) {", key)
		s.Line("throw %s(%s);", idCodecError, quote(typ.Name+`: missing field "`+f.Name+`"`))
		s.Close("}")
		s.Line("j.at(%s).get_to(u.%s);", key, ident(f.Name))
	}
	s.Close("}")
	s.WriteNewLine()
}

func genEnumCodec(s *stringBuilder, typ *model.Type) {
	name := ident(typ.Name)

	s.Open("inline void to_json(%s &j, const %s &u) {", idJSON, name)
	s.Line("switch (u) {")
	for _, tag := range typ.Tags {
		s.Line("case %s::%s:", name, ident(tag.Ident))
		s.Indent()
		s.Line("j = %s;", quote(tag.Literal))
		s.Line("return;")
		s.DeIndent()
	}
	s.Line("}")
	s.Line("throw %s(%s);", idCodecError, quote(typ.Name+": value out of range"))
	s.Close("}")
	s.WriteNewLine()

	s.Open("inline void from_json(const %s &j, %s &u) {", idJSON, name)
	s.Line("const std::string s = j.get<std::string>();")
	for _, tag := range typ.Tags {
		s.Open("if (s == %s) {", quote(tag.Literal))
		s.Line("u = %s::%s;", name, ident(tag.Ident))
		s.Line("return;")
		s.Close("}")
	}
	s.Line(`throw %s(%s + s + "\"");`, idCodecError, quote(typ.Name+`: undeclared value "`))
	s.Close("}")
	s.WriteNewLine()
}
