package compiler

import (
	"fmt"

	"github.com/cwbudde/go-javac/internal/ast"
	"github.com/cwbudde/go-javac/internal/classfile"
	"github.com/cwbudde/go-javac/internal/emitter"
	"github.com/cwbudde/go-javac/internal/types"
)

// samDescriptor names one well-known functional interface's single
// abstract method, used to pick an invokedynamic descriptor when a
// lambda/method reference's target type can't be narrowed to a more
// specific, user-declared functional interface (spec.md §4.6 "The
// inferred interface is picked from the context"): these are the
// handful of java.util.function/java.lang shapes that actually show
// up without full generic target-type inference.
type samDescriptor struct {
	name   string
	params []types.Type
	ret    types.Type
}

var wellKnownSAMs = map[string]samDescriptor{
	"java/lang/Runnable":            {"run", nil, types.Void},
	"java/util/function/Supplier":   {"get", nil, types.Object},
	"java/util/function/Consumer":   {"accept", []types.Type{types.Object}, types.Void},
	"java/util/function/Function":   {"apply", []types.Type{types.Object}, types.Object},
	"java/util/function/Predicate":  {"test", []types.Type{types.Object}, types.Boolean},
	"java/util/function/BiFunction": {"apply", []types.Type{types.Object, types.Object}, types.Object},
	"java/util/function/BiConsumer": {"accept", []types.Type{types.Object, types.Object}, types.Void},
	"java/util/Comparator":          {"compare", []types.Type{types.Object, types.Object}, types.Int},
}

// samFor resolves target's single abstract method. A nil or
// unrecognized target falls back to Runnable: the zero-arg, void-
// returning shape a bare statement lambda/method-reference satisfies.
func samFor(target types.Type) samDescriptor {
	if cls, ok := target.(types.Class); ok {
		if sam, ok := wellKnownSAMs[cls.Internal]; ok {
			return sam
		}
	}
	return wellKnownSAMs["java/lang/Runnable"]
}

func samInterfaceName(target types.Type) string {
	if cls, ok := target.(types.Class); ok {
		if _, ok := wellKnownSAMs[cls.Internal]; ok {
			return cls.Internal
		}
	}
	return "java/lang/Runnable"
}

// compileExprWithTarget compiles e exactly like compileExpr, except a
// lambda or method reference is given target as its inferred
// functional-interface type instead of falling back to the Runnable
// guess (spec.md §4.6: the target comes from "the target type of an
// assignment, cast, or call argument").
func (g *Generator) compileExprWithTarget(mc *methodContext, e ast.Expr, target types.Type) (types.Type, error) {
	switch ex := e.(type) {
	case *ast.LambdaExpr:
		return g.compileLambda(mc, ex, target)
	case *ast.MethodReferenceExpr:
		return g.compileMethodReference(mc, ex, target)
	default:
		return g.compileExpr(mc, e)
	}
}

// lambdaCapture is the result of scanning a lambda body for references
// that must become leading parameters of its desugared static method:
// the enclosing method's locals it closes over, in first-use order,
// and whether it reaches the enclosing instance (`this`, an instance
// field, or an unqualified instance call) and so needs `this` captured
// too.
type lambdaCapture struct {
	locals       []string
	capturesThis bool
}

// analyzeLambdaCapture walks body (the lambda's parameter-bound
// expression or block) collecting every free identifier that refers
// to one of mc's already-declared locals, and flags whether an
// enclosing-instance reference escapes. paramNames seeds the bound set
// so the lambda's own parameters are never mistaken for captures.
func (g *Generator) analyzeLambdaCapture(mc *methodContext, paramNames []string, body ast.Node) *lambdaCapture {
	bound := map[string]bool{}
	for _, n := range paramNames {
		bound[n] = true
	}
	cap := &lambdaCapture{}
	seen := map[string]bool{}

	record := func(name string) {
		if bound[name] {
			return
		}
		if _, ok := mc.locals[name]; ok {
			if !seen[name] {
				seen[name] = true
				cap.locals = append(cap.locals, name)
			}
		}
	}
	withBound := func(name string, f func()) {
		wasBound := bound[name]
		bound[name] = true
		f()
		if !wasBound {
			delete(bound, name)
		}
	}

	var walkExpr func(e ast.Expr)
	var walkStmt func(s ast.Stmt)

	walkExpr = func(e ast.Expr) {
		switch ex := e.(type) {
		case nil:
		case *ast.Literal, *ast.ClassLiteralExpr, *ast.QualifiedName:
		case *ast.Identifier:
			record(ex.Name)
		case *ast.ThisExpr:
			if !mc.isStatic {
				cap.capturesThis = true
			}
		case *ast.SuperExpr:
			if !mc.isStatic {
				cap.capturesThis = true
			}
		case *ast.ParenExpr:
			walkExpr(ex.Expression)
		case *ast.FieldAccessExpr:
			walkExpr(ex.Target)
		case *ast.ArrayAccessExpr:
			walkExpr(ex.Array)
			walkExpr(ex.Index)
		case *ast.MethodInvocationExpr:
			if ex.Target == nil {
				if !mc.isStatic {
					cap.capturesThis = true
				}
			} else {
				walkExpr(ex.Target)
			}
			for _, a := range ex.Arguments {
				walkExpr(a)
			}
		case *ast.NewInstanceExpr:
			walkExpr(ex.Qualifier)
			for _, a := range ex.Arguments {
				walkExpr(a)
			}
		case *ast.NewArrayExpr:
			for _, d := range ex.Dimensions {
				walkExpr(d)
			}
			if ex.Initializer != nil {
				walkExpr(ex.Initializer)
			}
		case *ast.ArrayInitializerExpr:
			for _, el := range ex.Elements {
				walkExpr(el)
			}
		case *ast.AssignmentExpr:
			walkExpr(ex.Target)
			walkExpr(ex.Value)
		case *ast.BinaryExpr:
			walkExpr(ex.Left)
			walkExpr(ex.Right)
		case *ast.UnaryExpr:
			walkExpr(ex.Operand)
		case *ast.CastExpr:
			walkExpr(ex.Expression)
		case *ast.InstanceOfExpr:
			walkExpr(ex.Expression)
		case *ast.ConditionalExpr:
			walkExpr(ex.Condition)
			walkExpr(ex.Then)
			walkExpr(ex.Else)
		case *ast.LambdaExpr:
			saved := make(map[string]bool, len(bound))
			for k, v := range bound {
				saved[k] = v
			}
			for _, p := range ex.Parameters {
				bound[p.Name] = true
			}
			if ex.BodyExpr != nil {
				walkExpr(ex.BodyExpr)
			}
			if ex.BodyBlock != nil {
				walkStmt(ex.BodyBlock)
			}
			bound = saved
		case *ast.MethodReferenceExpr:
			if ex.TargetExpr != nil {
				walkExpr(ex.TargetExpr)
			}
		}
	}

	walkStmt = func(s ast.Stmt) {
		switch st := s.(type) {
		case nil:
		case *ast.Block:
			saved := make(map[string]bool, len(bound))
			for k, v := range bound {
				saved[k] = v
			}
			for _, inner := range st.Statements {
				walkStmt(inner)
			}
			bound = saved
		case *ast.LocalVarDecl:
			for _, d := range st.Declarators {
				walkExpr(d.Initializer)
				bound[d.Name] = true
			}
		case *ast.ExprStmt:
			walkExpr(st.Expression)
		case *ast.IfStmt:
			walkExpr(st.Condition)
			walkStmt(st.Then)
			walkStmt(st.Else)
		case *ast.WhileStmt:
			walkExpr(st.Condition)
			walkStmt(st.Body)
		case *ast.DoWhileStmt:
			walkStmt(st.Body)
			walkExpr(st.Condition)
		case *ast.ForStmt:
			if st.Init != nil {
				walkStmt(st.Init)
			}
			for _, e := range st.InitExprs {
				walkExpr(e)
			}
			walkExpr(st.Condition)
			walkStmt(st.Body)
			for _, u := range st.Update {
				walkExpr(u)
			}
		case *ast.EnhancedForStmt:
			walkExpr(st.Iterable)
			withBound(st.Name, func() { walkStmt(st.Body) })
		case *ast.SwitchStmt:
			walkExpr(st.Expression)
			for _, c := range st.Cases {
				for _, l := range c.Labels {
					walkExpr(l)
				}
				for _, inner := range c.Statements {
					walkStmt(inner)
				}
			}
		case *ast.ReturnStmt:
			walkExpr(st.Expression)
		case *ast.ThrowStmt:
			walkExpr(st.Expression)
		case *ast.LabeledStmt:
			walkStmt(st.Statement)
		case *ast.SynchronizedStmt:
			walkExpr(st.Expression)
			walkStmt(st.Body)
		case *ast.TryStmt:
			for _, r := range st.Resources {
				walkExpr(r.Expression)
				bound[r.Name] = true
			}
			walkStmt(st.Body)
			for _, c := range st.Catches {
				withBound(c.Name, func() { walkStmt(c.Body) })
			}
			if st.Finally != nil {
				walkStmt(st.Finally)
			}
		case *ast.AssertStmt:
			walkExpr(st.Condition)
			walkExpr(st.Message)
		}
	}

	switch b := body.(type) {
	case ast.Expr:
		walkExpr(b)
	case ast.Stmt:
		walkStmt(b)
	}
	return cap
}

// compileLambda desugars `(params) -> body` into (i) a private static
// synthetic method on the enclosing class holding the body, with
// captured locals (and, when needed, the enclosing instance) as
// leading parameters, (ii) a bootstrap-methods-table entry for
// java.lang.invoke.LambdaMetafactory.metafactory, and (iii) an
// invokedynamic instruction that pushes the captures and returns the
// target functional-interface type (spec.md §4.6 "Lambda").
func (g *Generator) compileLambda(mc *methodContext, expr *ast.LambdaExpr, target types.Type) (types.Type, error) {
	paramNames := make([]string, len(expr.Parameters))
	for i, p := range expr.Parameters {
		paramNames[i] = p.Name
	}
	var bodyNode ast.Node
	if expr.BodyBlock != nil {
		bodyNode = expr.BodyBlock
	} else {
		bodyNode = expr.BodyExpr
	}
	cap := g.analyzeLambdaCapture(mc, paramNames, bodyNode)

	sam := samFor(target)
	ifaceName := samInterfaceName(target)

	lambdaParamTypes := make([]types.Type, len(expr.Parameters))
	for i, p := range expr.Parameters {
		switch {
		case p.Type != nil:
			lambdaParamTypes[i] = g.resolveType(p.Type)
		case i < len(sam.params):
			lambdaParamTypes[i] = sam.params[i]
		default:
			lambdaParamTypes[i] = types.Object
		}
	}

	g.unit.lambdaCounter++
	methodName := fmt.Sprintf("lambda$%d", g.unit.lambdaCounter)
	implDesc := g.emitLambdaBody(mc, methodName, cap, lambdaParamTypes, sam.ret, expr)

	return g.emitIndy(mc, ifaceName, sam, methodName, implDesc, cap)
}

// emitLambdaBody builds the private static synthetic method that
// holds the lambda's body: cap's captured locals (and `this`, retyped
// to the enclosing class, when cap.capturesThis) come first, ahead of
// the lambda's own declared parameters. Returns the method's full
// descriptor, needed to build the invokedynamic call site's impl
// MethodHandle.
func (g *Generator) emitLambdaBody(mc *methodContext, methodName string, cap *lambdaCapture, lambdaParamTypes []types.Type, retType types.Type, expr *ast.LambdaExpr) string {
	implEmit := emitter.New(g.builder.ConstantPool())
	implMC := newMethodContext(implEmit, retType, true)

	var implParamTypes []types.Type
	if cap.capturesThis {
		implParamTypes = append(implParamTypes, types.NewClass(g.internalName))
		implMC.declareLocal("this", types.NewClass(g.internalName))
	}
	for _, name := range cap.locals {
		t := mc.locals[name].typ
		implParamTypes = append(implParamTypes, t)
		implMC.declareLocal(name, t)
	}
	implParamTypes = append(implParamTypes, lambdaParamTypes...)
	for i, p := range expr.Parameters {
		implMC.declareLocal(p.Name, lambdaParamTypes[i])
	}

	if expr.BodyBlock != nil {
		if err := g.compileStmt(implMC, expr.BodyBlock); err == nil && retType == types.Void {
			implEmit.ReturnVoid()
		}
	} else if vt, err := g.compileExpr(implMC, expr.BodyExpr); err == nil {
		g.convertIfNeeded(implMC, vt, retType)
		if retType == types.Void {
			implEmit.ReturnVoid()
		} else {
			implEmit.Return(emitKindOf(retType))
		}
	}

	desc := methodDescriptor(implParamTypes, retType)
	g.builder.AddMethod(&classfile.MethodInfo{
		Name:        methodName,
		Descriptor:  desc,
		AccessFlags: classfile.AccStatic | classfile.AccPrivate | classfile.AccSynthetic,
		Code:        implEmit.Finalize(),
	})
	return desc
}

func methodDescriptor(params []types.Type, ret types.Type) string {
	d := "("
	for _, p := range params {
		d += p.Descriptor()
	}
	return d + ")" + ret.Descriptor()
}

func sumSlots(ts []types.Type) int {
	n := 0
	for _, t := range ts {
		n += t.Size()
	}
	return n
}

// emitIndy pushes every captured value (the enclosing `this` first,
// then captured locals) and emits the invokedynamic call site that
// realizes the functional interface, interning a LambdaMetafactory
// bootstrap-methods-table entry for this specific call site (spec.md
// §4.6 "Lambda"; §4.1 "the class file is promoted to Java 8 when the
// generator emits an invokedynamic").
func (g *Generator) emitIndy(mc *methodContext, ifaceName string, sam samDescriptor, methodName, implDesc string, cap *lambdaCapture) (types.Type, error) {
	cp := mc.emit.ConstantPool()

	argSlots := 0
	capturedTypes := make([]types.Type, 0, len(cap.locals)+1)
	if cap.capturesThis {
		mc.emit.Load(emitter.KindRef, mc.thisSlot)
		argSlots++
		capturedTypes = append(capturedTypes, types.NewClass(g.internalName))
	}
	for _, name := range cap.locals {
		lv := mc.locals[name]
		mc.emit.Load(emitKindOf(lv.typ), lv.slot)
		argSlots += lv.typ.Size()
		capturedTypes = append(capturedTypes, lv.typ)
	}

	capturedDesc := methodDescriptor(capturedTypes, types.NewClass(ifaceName))
	samDesc := methodDescriptor(sam.params, sam.ret)

	implHandleIdx := cp.AddMethodHandle(classfile.RefInvokeStatic, cp.AddMethodref(g.internalName, methodName, implDesc))
	samMethodTypeIdx := cp.AddMethodType(samDesc)
	instantiatedMethodTypeIdx := cp.AddMethodType(samDesc)

	bootstrapIdx := g.lambdaMetafactoryBootstrap(cp, samMethodTypeIdx, implHandleIdx, instantiatedMethodTypeIdx)
	indyIdx := cp.AddInvokeDynamic(bootstrapIdx, cp.AddNameAndType(sam.name, capturedDesc))

	mc.emit.InvokeDynamic(indyIdx, argSlots, 1)
	return types.NewClass(ifaceName), nil
}

// lambdaMetafactoryBootstrap registers one bootstrap-methods-table
// entry for one invokedynamic call site; the bootstrap method's own
// MethodHandle constant (LambdaMetafactory.metafactory) dedupes across
// every lambda in the class since the constant pool interns by value,
// but the table entry itself (handle + these three site-specific
// arguments) is written fresh per call site.
func (g *Generator) lambdaMetafactoryBootstrap(cp *classfile.ConstantPool, samMethodTypeIdx, implHandleIdx, instantiatedMethodTypeIdx uint16) uint16 {
	metafactoryRef := cp.AddMethodref(
		"java/lang/invoke/LambdaMetafactory",
		"metafactory",
		"(Ljava/lang/invoke/MethodHandles$Lookup;Ljava/lang/String;Ljava/lang/invoke/MethodType;Ljava/lang/invoke/MethodType;Ljava/lang/invoke/MethodHandle;Ljava/lang/invoke/MethodType;)Ljava/lang/invoke/CallSite;",
	)
	handleIdx := cp.AddMethodHandle(classfile.RefInvokeStatic, metafactoryRef)
	g.builder.MarkRequiresJava8()
	return g.builder.AddBootstrap(handleIdx, []uint16{samMethodTypeIdx, implHandleIdx, instantiatedMethodTypeIdx})
}

// compileMethodReference desugars `Target::method`. A constructor
// reference and an unbound type reference (`Type::method`, either
// static or instance-with-receiver-as-first-argument) capture nothing
// from the enclosing scope, so their synthetic bodies are built
// directly; a bound instance reference (`expr::method`) is rewritten
// as `(args) -> expr.method(args)` and run back through compileLambda
// so its capture analysis and invokedynamic wiring are identical to
// an ordinary lambda's.
func (g *Generator) compileMethodReference(mc *methodContext, expr *ast.MethodReferenceExpr, target types.Type) (types.Type, error) {
	sam := samFor(target)
	ifaceName := samInterfaceName(target)

	switch {
	case expr.Method == "new":
		return g.compileCtorReference(mc, expr, sam, ifaceName)
	case expr.TargetExpr != nil:
		params := make([]*ast.FormalParameter, len(sam.params))
		argExprs := make([]ast.Expr, len(sam.params))
		for i := range sam.params {
			name := fmt.Sprintf("$ref%d", i)
			params[i] = &ast.FormalParameter{Name: name}
			argExprs[i] = &ast.Identifier{Name: name}
		}
		synthetic := &ast.LambdaExpr{
			Parameters: params,
			BodyExpr:   &ast.MethodInvocationExpr{Target: expr.TargetExpr, Method: expr.Method, Arguments: argExprs},
		}
		return g.compileLambda(mc, synthetic, target)
	default:
		return g.compileTypeMethodReference(mc, expr, sam, ifaceName)
	}
}

// compileCtorReference desugars `Type::new` into a synthetic static
// method that allocates, initializes, and returns a new instance.
func (g *Generator) compileCtorReference(mc *methodContext, expr *ast.MethodReferenceExpr, sam samDescriptor, ifaceName string) (types.Type, error) {
	cls, ok := g.resolveType(expr.TargetType).(types.Class)
	if !ok {
		cls = types.NewClass("java/lang/Object")
	}

	g.unit.lambdaCounter++
	methodName := fmt.Sprintf("lambda$%d", g.unit.lambdaCounter)

	implEmit := emitter.New(g.builder.ConstantPool())
	implMC := newMethodContext(implEmit, cls, true)
	slots := make([]int, len(sam.params))
	for i, t := range sam.params {
		slots[i] = implMC.declareLocal(fmt.Sprintf("$ctor%d", i), t)
	}

	cp := implEmit.ConstantPool()
	implEmit.New(cp.AddClass(cls.Internal))
	implEmit.Dup()
	for i, t := range sam.params {
		implEmit.Load(emitKindOf(t), slots[i])
	}
	ctorDesc := methodDescriptor(sam.params, types.Void)
	implEmit.InvokeSpecial(cp.AddMethodref(cls.Internal, "<init>", ctorDesc), sumSlots(sam.params), 0)
	implEmit.Return(emitter.KindRef)

	implDesc := methodDescriptor(sam.params, cls)
	g.builder.AddMethod(&classfile.MethodInfo{
		Name:        methodName,
		Descriptor:  implDesc,
		AccessFlags: classfile.AccStatic | classfile.AccPrivate | classfile.AccSynthetic,
		Code:        implEmit.Finalize(),
	})

	return g.emitIndy(mc, ifaceName, sam, methodName, implDesc, &lambdaCapture{})
}

// compileTypeMethodReference desugars `Type::method` where method is
// resolved on Type itself rather than on a captured receiver
// expression: a static method is forwarded directly; otherwise the
// reference is unbound and the first SAM parameter becomes the
// receiver (JLS 15.13.1 case 2/3). When classpath metadata resolves
// the real method, its actual parameter/return types are used for the
// forwarding call instead of the SAM's erased ones.
func (g *Generator) compileTypeMethodReference(mc *methodContext, expr *ast.MethodReferenceExpr, sam samDescriptor, ifaceName string) (types.Type, error) {
	targetInternal := asClassInternal(g.resolveType(expr.TargetType))

	rm, _ := g.resolver.FindMethod(targetInternal, expr.Method, sam.params)
	isStatic := rm != nil && rm.IsStatic
	if rm == nil && len(sam.params) > 0 {
		rm, _ = g.resolver.FindMethod(targetInternal, expr.Method, sam.params[1:])
	}

	paramTypes := append([]types.Type(nil), sam.params...)
	retType := sam.ret
	if !isStatic && len(paramTypes) > 0 {
		paramTypes[0] = types.NewClass(targetInternal)
	}
	if rm != nil {
		retType = rm.Return
		offset := 0
		if !isStatic {
			offset = 1
		}
		for i, p := range rm.Params {
			if offset+i < len(paramTypes) {
				paramTypes[offset+i] = p
			}
		}
	}

	g.unit.lambdaCounter++
	methodName := fmt.Sprintf("lambda$%d", g.unit.lambdaCounter)

	implEmit := emitter.New(g.builder.ConstantPool())
	implMC := newMethodContext(implEmit, retType, true)
	slots := make([]int, len(paramTypes))
	for i, t := range paramTypes {
		slots[i] = implMC.declareLocal(fmt.Sprintf("$ref%d", i), t)
	}
	for i, t := range paramTypes {
		implEmit.Load(emitKindOf(t), slots[i])
	}

	startIdx := 0
	if !isStatic {
		startIdx = 1
	}
	argSlotCount := sumSlots(paramTypes[startIdx:])
	retSlots := retType.Size()
	if retType == types.Void {
		retSlots = 0
	}

	cp := implEmit.ConstantPool()
	calleeDesc := methodDescriptor(paramTypes[startIdx:], retType)
	useInterface := rm != nil && rm.IsInterface
	var methodrefIdx uint16
	if useInterface {
		methodrefIdx = cp.AddInterfaceMethodref(targetInternal, expr.Method, calleeDesc)
	} else {
		methodrefIdx = cp.AddMethodref(targetInternal, expr.Method, calleeDesc)
	}

	switch {
	case isStatic:
		implEmit.InvokeStatic(methodrefIdx, argSlotCount, retSlots)
	case useInterface:
		implEmit.InvokeInterface(methodrefIdx, argSlotCount, retSlots)
	default:
		implEmit.InvokeVirtual(methodrefIdx, argSlotCount, retSlots)
	}
	if retType == types.Void {
		implEmit.ReturnVoid()
	} else {
		implEmit.Return(emitKindOf(retType))
	}

	implDesc := methodDescriptor(paramTypes, retType)
	g.builder.AddMethod(&classfile.MethodInfo{
		Name:        methodName,
		Descriptor:  implDesc,
		AccessFlags: classfile.AccStatic | classfile.AccPrivate | classfile.AccSynthetic,
		Code:        implEmit.Finalize(),
	})

	return g.emitIndy(mc, ifaceName, sam, methodName, implDesc, &lambdaCapture{})
}

func asClassInternal(t types.Type) string {
	if cls, ok := t.(types.Class); ok {
		return cls.Internal
	}
	return "java/lang/Object"
}
